package handler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmcooller/Real-ESRGAN/internal/core/domain"
	"github.com/dmcooller/Real-ESRGAN/internal/core/port"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRegistry struct {
	mock.Mock
	cmd port.Command
}

func (m *MockRegistry) Get(cmd string) (port.Command, error) {
	args := m.Called(cmd)
	return m.cmd, args.Error(1)
}

func (m *MockRegistry) Register(handler port.Command) {
	m.cmd = handler
	m.Called(handler)
}

func (m *MockRegistry) ListCommands() []string {
	m.Called()
	return []string{"foo", "bar"}
}

type MockCmdHandler struct{ mock.Mock }

func (m *MockCmdHandler) Respond(ctx context.Context, timeout time.Duration, msg *domain.Message) error {
	args := m.Called(ctx, timeout, msg)
	return args.Error(0)
}

func (m *MockCmdHandler) GetCommand() string {
	m.Called()
	return ""
}

func makeUpdate(txt string) *models.Update {
	return &models.Update{
		Message: &models.Message{
			ID:   1,
			Text: txt,
			Chat: models.Chat{ID: 100},
			From: &models.User{ID: 200, Username: "bob", FirstName: "bob"},
		},
	}
}

func TestCommandHandlerHandle(t *testing.T) {
	tests := []struct {
		name       string
		update     *models.Update
		mockSetup  func(r *MockRegistry, ch *MockCmdHandler)
		wantCalled bool
		wantMsg    *domain.Message
	}{
		{
			name:       "no message in update",
			update:     &models.Update{},
			mockSetup:  func(_ *MockRegistry, _ *MockCmdHandler) {},
			wantCalled: false,
		},
		{
			name:   "unknown command",
			update: makeUpdate("/unknown"),
			mockSetup: func(r *MockRegistry, _ *MockCmdHandler) {
				r.On("Get", "/unknown").Return(nil, errors.New("no handler"))
			},
			wantCalled: false,
		},
		{
			name:   "known command, Respond called successfully",
			update: makeUpdate("/upscale"),
			mockSetup: func(r *MockRegistry, ch *MockCmdHandler) {
				r.On("Get", "/upscale").Return(ch, nil)
				ch.On("Respond", mock.Anything, mock.Anything,
					mock.AnythingOfType("*domain.Message")).Return(nil)
			},
			wantCalled: true,
			wantMsg: &domain.Message{
				ID:       1,
				ChatID:   100,
				Username: "@bob",
				ImageURL: "",
				Text:     "/upscale",
			},
		},
		{
			name:   "known command, Respond returns error",
			update: makeUpdate("/fail"),
			mockSetup: func(r *MockRegistry, ch *MockCmdHandler) {
				r.On("Get", "/fail").Return(ch, nil)
				ch.On("Respond", mock.Anything, mock.Anything,
					mock.AnythingOfType("*domain.Message")).Return(errors.New("fail"))
			},
			wantCalled: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			reg := new(MockRegistry)
			cmdHandler := new(MockCmdHandler)
			reg.cmd = cmdHandler
			tc.mockSetup(reg, cmdHandler)

			ch := NewCommandHandler(reg, 3*time.Second)
			ch.Handle(context.Background(), nil, tc.update)

			// Respond runs in a goroutine, wait for it to finish.
			time.Sleep(100 * time.Millisecond)

			reg.AssertExpectations(t)
			if tc.wantCalled {
				if tc.wantMsg != nil {
					cmdHandler.AssertCalled(t, "Respond", mock.Anything, mock.Anything, tc.wantMsg)
				}
				cmdHandler.AssertExpectations(t)
			} else {
				cmdHandler.AssertNotCalled(t, "Respond", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestGetUserNameOrFirstName(t *testing.T) {
	assert.Equal(t, "@bob", getUserNameOrFirstName(&models.User{Username: "bob", FirstName: "Robert"}))
	assert.Equal(t, "Robert", getUserNameOrFirstName(&models.User{FirstName: "Robert"}))
	assert.Equal(t, "", getUserNameOrFirstName(nil))
}

func TestCaptionUsedForPhotoMessages(t *testing.T) {
	reg := new(MockRegistry)
	cmdHandler := new(MockCmdHandler)
	reg.cmd = cmdHandler
	reg.On("Get", "/upscale").Return(cmdHandler, nil)
	cmdHandler.On("Respond", mock.Anything, mock.Anything,
		mock.AnythingOfType("*domain.Message")).Return(nil)

	// An empty photo slice still routes the caption, without touching the
	// telegram file API.
	update := makeUpdate("")
	update.Message.Caption = "/upscale face"
	update.Message.Photo = []models.PhotoSize{}

	ch := NewCommandHandler(reg, 3*time.Second)
	ch.Handle(context.Background(), nil, update)

	time.Sleep(100 * time.Millisecond)

	reg.AssertExpectations(t)
}
