package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	base := NotFound("DOCUMENT_NOT_FOUND", "document not found")

	assert.Equal(t, KindNotFound, KindOf(base))
	assert.Equal(t, KindNotFound, KindOf(fmt.Errorf("wrapped: %w", base)))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.Equal(t, KindInternal, KindOf(nil))
}

func TestIsMatchesKindAndCode(t *testing.T) {
	sentinel := Validation("INVALID_TYPE", "invalid document type")
	withCause := sentinel.WithCause(errors.New("boom"))

	assert.ErrorIs(t, withCause, sentinel)
	assert.NotErrorIs(t, withCause, Validation("OTHER", "invalid document type"))
	assert.Nil(t, sentinel.Err, "WithCause must not mutate the sentinel")
}

func TestConfigurationRemediation(t *testing.T) {
	err := Configuration("AUDIT_SCHEMA_MISSING", "audit table is missing", "run migrations")

	e, ok := As(fmt.Errorf("ctx: %w", err))
	assert.True(t, ok)
	assert.Equal(t, KindConfiguration, e.Kind)
	assert.Equal(t, []string{"run migrations"}, e.Remediation)
	assert.Contains(t, err.Error(), "configuration")
}

func TestStatus(t *testing.T) {
	cases := map[error]int{
		Validation("X", "x"):     400,
		Authentication("X", "x"): 401,
		Authorization("X", "x"):  403,
		NotFound("X", "x"):       404,
		StorageDrift("X", "x"):   404,
		Conflict("X", "x"):       409,
		Configuration("X", "x"):  500,
		errors.New("raw"):        500,
	}
	for err, want := range cases {
		assert.Equal(t, want, Status(err), err.Error())
	}
}
