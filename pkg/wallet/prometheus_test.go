package wallet

import (
	"testing"

	"github.com/nspcc-dev/neo-keystore/pkg/config/netmode"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	acc, err := NewAccount()
	require.NoError(t, err)
	require.NoError(t, acc.Encrypt("pass", lightScrypt))

	sigs := testutil.ToFloat64(signatures)
	_, err = acc.SignTx(netmode.UnitTestNet, []byte{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, sigs+1, testutil.ToFloat64(signatures))

	var (
		ok    = testutil.ToFloat64(nep2Decrypts.WithLabelValues(decryptOK))
		wrong = testutil.ToFloat64(nep2Decrypts.WithLabelValues(decryptWrongPassword))
		bad   = testutil.ToFloat64(nep2Decrypts.WithLabelValues(decryptError))
	)
	require.NoError(t, acc.Decrypt("pass", lightScrypt))
	require.Error(t, acc.Decrypt("wrong", lightScrypt))
	acc.EncryptedWIF = "garbage"
	require.Error(t, acc.Decrypt("pass", lightScrypt))

	require.Equal(t, ok+1, testutil.ToFloat64(nep2Decrypts.WithLabelValues(decryptOK)))
	require.Equal(t, wrong+1, testutil.ToFloat64(nep2Decrypts.WithLabelValues(decryptWrongPassword)))
	require.Equal(t, bad+1, testutil.ToFloat64(nep2Decrypts.WithLabelValues(decryptError)))
}
