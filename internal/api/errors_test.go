package api_test

import (
	"errors"
	"testing"

	"comanda-client/internal/api"

	"github.com/stretchr/testify/assert"
)

func TestMessageForUsesOperationSpecificWording(t *testing.T) {
	msgs := api.StatusMessages{
		Conflict: "a category with this name already exists",
		Invalid:  "invalid category data",
	}

	tests := []struct {
		name   string
		status int
		want   string
	}{
		{name: "specific conflict", status: 409, want: "a category with this name already exists"},
		{name: "specific validation", status: 422, want: "invalid category data"},
		{name: "generic bad request", status: 400, want: "invalid request"},
		{name: "generic unauthorized", status: 401, want: api.MsgSessionExpired},
		{name: "generic forbidden", status: 403, want: api.MsgNotAuthorized},
		{name: "generic not found", status: 404, want: api.MsgNotFound},
		{name: "generic 500", status: 500, want: api.MsgServerError},
		{name: "generic 503", status: 503, want: api.MsgServerError},
		{name: "unmapped status", status: 418, want: "unexpected response from server (status 418)"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, msgs.MessageFor(testCase.status))
		})
	}
}

func TestConnectionMessage(t *testing.T) {
	err := &api.TransportError{Op: "send request", Err: errors.New("dial tcp: refused")}
	assert.Equal(t, "connection error: send request: dial tcp: refused", api.ConnectionMessage(err))
}
