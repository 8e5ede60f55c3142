package mocks

import (
	"github.com/stretchr/testify/mock"

	"docingest/internal/notify"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Publish(projectID string, action notify.Action) {
	m.Called(projectID, action)
}
