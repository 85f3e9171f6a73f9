package check

import (
	"testing"

	"github.com/komodo-platform/komodod/domain/consensus/model/externalapi"
)

func TestKomodoDepositAndOpretCheckNilData(t *testing.T) {
	if err := KomodoDepositAndOpretCheck(transparentTx(), nil); err != nil {
		t.Errorf("nil LastTxVerifyData should be a no-op: %v", err)
	}
}

func TestKomodoDepositAndOpretCheckNoOpret(t *testing.T) {
	tx := transparentTx()
	data := &externalapi.LastTxVerifyData{CoinbaseTx: coinbaseTx()}
	if err := KomodoDepositAndOpretCheck(tx, data); err != nil {
		t.Errorf("a transaction with no trailing opret-shaped output should not fail: %v", err)
	}
}

func TestKomodoDepositAndOpretCheckMalformedOpret(t *testing.T) {
	tx := transparentTx()
	tx.Outputs = append(tx.Outputs, &externalapi.TransparentOutput{
		ScriptPublicKey: []byte{opReturnOpcode, 0x01},
	})
	data := &externalapi.LastTxVerifyData{CoinbaseTx: coinbaseTx()}
	err := KomodoDepositAndOpretCheck(tx, data)
	if err == nil {
		t.Fatal("expected an error for a too-short opret payload")
	}
}

func TestKomodoDepositAndOpretCheckMissingCoinbase(t *testing.T) {
	tx := transparentTx()
	tx.Outputs = append(tx.Outputs, &externalapi.TransparentOutput{
		ScriptPublicKey: []byte{opReturnOpcode, 0x01, 0x02, 0x03, 0x04},
	})
	data := &externalapi.LastTxVerifyData{}
	if err := KomodoDepositAndOpretCheck(tx, data); err == nil {
		t.Error("expected an error when no coinbase is available to validate the deposit against")
	}
}
