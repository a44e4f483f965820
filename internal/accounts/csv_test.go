package accounts

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/dkbsync/internal/model"
)

func TestRoundTrip(t *testing.T) {
	accounts := []model.LedgerAccount{
		{ID: "a1", Name: "Girokonto", IBAN: "DE12120300001234567890"},
		{ID: "a2", Name: "Tagesgeld, joint", IBAN: ""},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteAccounts(&buf, accounts))
	assert.True(t, strings.HasPrefix(buf.String(), "id,name,iban\n"))

	got, err := ReadAccounts(&buf)
	require.NoError(t, err)
	assert.Equal(t, accounts, got)
}

func TestReadAccounts_HeaderOnly(t *testing.T) {
	got, err := ReadAccounts(strings.NewReader("id,name,iban\n"))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestReadAccounts_Errors(t *testing.T) {
	_, err := ReadAccounts(strings.NewReader("id,name,iban\na1,Giro\n"))
	assert.Error(t, err)

	_, err = ReadAccounts(strings.NewReader("id,name,iban\n,Giro,DE1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}
