package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/encoding"
)

func TestCodecRegistered(t *testing.T) {
	c := encoding.GetCodec(CodecName)
	require.NotNil(t, c)
	assert.Equal(t, CodecName, c.Name())
}

func TestCodec_EmbeddedOutcomeIsFlat(t *testing.T) {
	in := &ListAttemptsResult{
		Outcome:  Outcome{OK: true, Message: "1 attempt(s)"},
		Attempts: []AttemptView{{Ordinal: 1, ID: "a", TWK: 1, TIU: 2, TKP: 3, Total: 6, CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)}},
	}
	b, err := Codec{}.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"ok":true`)
	assert.Contains(t, string(b), `"twk":1`)

	var out ListAttemptsResult
	require.NoError(t, Codec{}.Unmarshal(b, &out))
	assert.Equal(t, *in, out)
}

func TestFullMethodAndPublic(t *testing.T) {
	assert.Equal(t, "/skd.Dashboard/Login", FullMethod(MethodLogin))
	assert.True(t, Public(MethodPing))
	assert.True(t, Public(MethodRegister))
	assert.True(t, Public(MethodLogin))
	assert.False(t, Public(MethodSubmitAttempt))
	assert.False(t, Public(MethodConfirmReset))
}
