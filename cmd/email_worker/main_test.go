package main

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/oksasatya/user-management/pkg/mailer"
)

type mockSender struct{ mock.Mock }

func (m *mockSender) Send(ctx context.Context, to, subject, text, html string) error {
	return m.Called(to, subject, text, html).Error(0)
}

func TestProcess_RendersTemplate(t *testing.T) {
	s := &mockSender{}
	s.On("Send", "alice@example.com", "Your password was changed",
		mock.MatchedBy(func(text string) bool { return text != "" && !strings.Contains(text, "<p>") }),
		mock.MatchedBy(func(html string) bool { return strings.Contains(html, "alice") }),
	).Return(nil).Once()

	res, err := process(context.Background(), s,
		[]byte(`{"to":"alice@example.com","template":"`+mailer.PasswordChanged+`","data":{"Username":"alice","TimeAt":"now"}}`))
	assert.NoError(t, err)
	assert.Equal(t, ack, res)
	s.AssertExpectations(t)
}

func TestProcess_RawMessage(t *testing.T) {
	s := &mockSender{}
	s.On("Send", "bob@example.com", "hi", "plain", "").Return(nil).Once()

	res, err := process(context.Background(), s, []byte(`{"to":"bob@example.com","subject":"hi","text":"plain"}`))
	assert.NoError(t, err)
	assert.Equal(t, ack, res)
	s.AssertExpectations(t)
}

func TestProcess_DropsBadJobs(t *testing.T) {
	s := &mockSender{}
	for _, body := range []string{
		`not json`,
		`{"template":"user_created"}`,
		`{"to":"x@example.com","template":"no_such_template"}`,
	} {
		res, err := process(context.Background(), s, []byte(body))
		assert.Error(t, err, body)
		assert.Equal(t, drop, res, body)
	}
	s.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProcess_RetriesSendFailure(t *testing.T) {
	s := &mockSender{}
	s.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("mailgun 503")).Once()

	res, err := process(context.Background(), s, []byte(`{"to":"c@example.com","template":"user_deleted","data":{"Username":"c"}}`))
	assert.Error(t, err)
	assert.Equal(t, retry, res)
}
