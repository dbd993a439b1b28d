package queue

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleMessageDecodesAndDispatches(t *testing.T) {
	var got EmailRequestedEvent
	handle := func(ev EmailRequestedEvent) error {
		got = ev
		return nil
	}

	body := []byte(`{"to":"ann@x.com","name":"Ann","template":"verify-email","data":{"token":"tok"}}`)
	require.NoError(t, handleMessage(body, handle))
	assert.Equal(t, "ann@x.com", got.To)
	assert.Equal(t, TemplateVerifyEmail, got.Template)
	assert.Equal(t, "tok", got.Data["token"])
}

func TestHandleMessageRejectsMalformedJSON(t *testing.T) {
	called := false
	err := handleMessage([]byte("{nope"), func(EmailRequestedEvent) error {
		called = true
		return nil
	})
	assert.Error(t, err)
	assert.False(t, called, "a malformed message must never reach the sender")
}

func TestHandleMessagePropagatesSendFailure(t *testing.T) {
	sendErr := errors.New("relay refused")
	err := handleMessage([]byte(`{"to":"ann@x.com","template":"welcome"}`), func(EmailRequestedEvent) error {
		return sendErr
	})
	assert.ErrorIs(t, err, sendErr)
}
