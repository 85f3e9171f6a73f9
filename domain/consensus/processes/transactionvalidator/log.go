package transactionvalidator

import (
	"github.com/komodo-platform/komodod/logger"
	"github.com/komodo-platform/komodod/util/panics"
)

var log, _ = logger.Get(logger.SubsystemTags.TXVR)
var spawn = panics.GoroutineWrapperFunc(log)
