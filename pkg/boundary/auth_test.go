package boundary

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBasicAuthHeader(t *testing.T) {
	assert.Equal(t, "Basic YWJjOg==", BasicAuthHeader("abc"))
	assert.Equal(t, "Basic Og==", BasicAuthHeader(""))
}

func TestBasicAuthHeaderSpecialCharacters(t *testing.T) {
	plus := BasicAuthHeader("~~~>")
	assert.Equal(t, "Basic fn5+Pjo=", plus)
	assert.Contains(t, plus, "+")

	slash := BasicAuthHeader("~~?~~")
	assert.Equal(t, "Basic fn4/fn46", slash)
	assert.Contains(t, slash, "/")
}

func TestBasicAuthHeaderHasNoLineBreaks(t *testing.T) {
	key := strings.Repeat("0123456789abcdef", 10)
	header := BasicAuthHeader(key)

	assert.NotContains(t, header, "\n")
	assert.True(t, strings.HasPrefix(header, "Basic "))

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(header, "Basic "))
	if assert.NoError(t, err) {
		assert.Equal(t, key+":", string(decoded))
	}
}
