package guard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rwagate/internal/asset/models"
	"rwagate/internal/ledger/ledgertest"
	"rwagate/pkg/domain"
	dErrors "rwagate/pkg/domain-errors"
)

type signers map[domain.Address]bool

func (s signers) IsSigner(addr domain.Address) bool { return s[addr] }

func TestAuthorizeCreate(t *testing.T) {
	custodian := ledgertest.Address("custodian")

	assert.NoError(t, AuthorizeCreate(signers{custodian: true}, custodian))

	err := AuthorizeCreate(signers{}, custodian)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorizedCustodian))

	err = AuthorizeCreate(signers{}, domain.Address{})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorizedCustodian))
}

func TestAuthorizeUpdate(t *testing.T) {
	custodian := ledgertest.Address("custodian")
	intruder := ledgertest.Address("intruder")
	record, err := models.NewAssetDetails("Bond", "B-1", "UK", 10, custodian, "", time.Unix(0, 0))
	require.NoError(t, err)

	tests := []struct {
		name      string
		signers   signers
		presented domain.Address
		wantErr   bool
	}{
		{"custodian co-signs", signers{custodian: true}, custodian, false},
		{"custodian presented without signature", signers{}, custodian, true},
		{"signed by someone else", signers{intruder: true}, intruder, true},
		{"custodian signed but another presented", signers{custodian: true}, intruder, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := AuthorizeUpdate(tc.signers, tc.presented, record)
			if !tc.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorizedCustodian))
		})
	}
}
