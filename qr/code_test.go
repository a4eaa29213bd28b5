package qr

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCodeFormat(t *testing.T) {
	noCollision := func(string) (bool, error) { return false, nil }

	code, err := GenerateCode(ItemPrefix, noCollision)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^IT-[A-Z0-9]{8}$`), code)

	code, err = GenerateCode(WarehousePrefix, noCollision)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^WH-[A-Z0-9]{8}$`), code)
}

func TestGenerateCodeRetriesOnCollision(t *testing.T) {
	calls := 0
	exists := func(string) (bool, error) {
		calls++
		return calls < 3, nil
	}

	code, err := GenerateCode(ItemPrefix, exists)
	require.NoError(t, err)
	assert.NotEmpty(t, code)
	assert.Equal(t, 3, calls)
}

func TestGenerateCodeGivesUp(t *testing.T) {
	alwaysTaken := func(string) (bool, error) { return true, nil }

	_, err := GenerateCode(ItemPrefix, alwaysTaken)
	assert.Error(t, err)
}

func TestRandomCodeCoversAlphabet(t *testing.T) {
	noCollision := func(string) (bool, error) { return false, nil }
	seen := map[byte]int{}
	for i := 0; i < 500; i++ {
		code, err := GenerateCode(ItemPrefix, noCollision)
		require.NoError(t, err)
		for j := 3; j < len(code); j++ {
			seen[code[j]]++
		}
	}
	for i := 0; i < len(codeAlphabet); i++ {
		assert.Positive(t, seen[codeAlphabet[i]], "character %c never drawn", codeAlphabet[i])
	}
}

func TestGenerateCodeUnique(t *testing.T) {
	seen := map[string]bool{}
	noCollision := func(string) (bool, error) { return false, nil }
	for i := 0; i < 200; i++ {
		code, err := GenerateCode(ItemPrefix, noCollision)
		require.NoError(t, err)
		assert.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true
	}
}
