package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "trustnest/pkg/domain-errors"
)

// TestParseUUID_Invariants validates the parsing invariant:
// IDs must be valid, non-empty, non-nil UUIDs.
func TestParseUUID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseUserID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseUserID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseUserID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		validUUID := uuid.New()
		id, err := ParseUserID(validUUID.String())
		require.NoError(t, err)
		assert.Equal(t, UserID(validUUID), id)
	})
}

// TestTypeDistinction verifies the compiler enforces type safety.
func TestTypeDistinction(t *testing.T) {
	userID := UserID(uuid.New())
	docID := DocumentID(uuid.New())

	// These would fail to compile if types were interchangeable:
	// var _ UserID = docID     // compile error
	// var _ DocumentID = userID // compile error

	// Verify they're distinct at runtime too
	assert.NotEqual(t, uuid.UUID(userID), uuid.UUID(docID))
}

// TestParseID_SecurityInvariants validates security-critical parsing rules.
// Parsing at trust boundaries must reject attack vectors outright.
func TestParseID_SecurityInvariants(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		// Attack vectors
		{"SQL injection attempt", "'; DROP TABLE users;--", true},
		{"Path traversal", "../../../etc/passwd", true},
		{"Null byte injection", "550e8400\x00-e29b-41d4-a716-446655440000", true},
		{"Oversized input", strings.Repeat("a", 1000), true},
		{"Unicode zero-width space", "550e8400​-e29b-41d4-a716-446655440000", true},

		// Edge cases
		{"Empty string", "", true},
		{"Nil UUID", uuid.Nil.String(), true},
		{"Whitespace only", "   ", true},
		{"Uppercase valid UUID", "550E8400-E29B-41D4-A716-446655440000", false},

		// Valid
		{"Valid UUID lowercase", "550e8400-e29b-41d4-a716-446655440000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseUserID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

// TestAllIDTypes_ConsistentBehavior ensures every ID type shares the same
// parsing rules.
func TestAllIDTypes_ConsistentBehavior(t *testing.T) {
	valid := uuid.New().String()

	t.Run("all types accept a valid UUID", func(t *testing.T) {
		_, err := ParseUserID(valid)
		require.NoError(t, err)
		_, err = ParseDocumentID(valid)
		require.NoError(t, err)
		_, err = ParseMatchID(valid)
		require.NoError(t, err)
		_, err = ParseFlagID(valid)
		require.NoError(t, err)
		_, err = ParseAuditID(valid)
		require.NoError(t, err)
	})

	t.Run("all types reject the nil UUID", func(t *testing.T) {
		nilStr := uuid.Nil.String()
		_, err := ParseUserID(nilStr)
		require.Error(t, err)
		_, err = ParseDocumentID(nilStr)
		require.Error(t, err)
		_, err = ParseMatchID(nilStr)
		require.Error(t, err)
		_, err = ParseFlagID(nilStr)
		require.Error(t, err)
		_, err = ParseAuditID(nilStr)
		require.Error(t, err)
	})
}

// TestNewIDs verifies generated IDs are non-nil and unique.
func TestNewIDs(t *testing.T) {
	a := NewUserID()
	b := NewUserID()
	assert.False(t, a.IsNil())
	assert.NotEqual(t, a, b)
}
