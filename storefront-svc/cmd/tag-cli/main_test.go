package main

import (
	"bytes"
	"errors"
	"testing"

	"ironxpress/storefront-svc/internal/domain"
	"ironxpress/storefront-svc/internal/mocks"
	"ironxpress/storefront-svc/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, repo *mocks.TagRepository, args ...string) (string, error) {
	t.Helper()
	closed := false
	open := func() (service.TagRepository, func(), error) {
		return repo, func() { closed = true }, nil
	}

	cmd := NewRootCommand(open)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	if err == nil {
		assert.True(t, closed)
	}
	return out.String(), err
}

func TestSetCommand(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		setupMock func(*mocks.TagRepository)
		wantOut   []string
		wantErr   bool
	}{
		{
			name: "updates matching service",
			args: []string{"set", "--service", "Steam Iron", "--tag", "Premium"},
			setupMock: func(m *mocks.TagRepository) {
				m.On("UpdateServiceTag", mock.Anything, "Steam Iron", "Premium").
					Return([]domain.Service{{Name: "Steam Iron", Tag: "Premium"}}, nil).Once()
			},
			wantOut: []string{`Updated "Steam Iron": tag="Premium"`},
		},
		{
			name: "lists services when nothing matched",
			args: []string{"set", "--service", "Dry Clean", "--tag", "New"},
			setupMock: func(m *mocks.TagRepository) {
				m.On("UpdateServiceTag", mock.Anything, "Dry Clean", "New").Return(nil, nil).Once()
				m.On("AllServices", mock.Anything).
					Return([]domain.Service{{Name: "Steam Iron", Tag: "Premium"}, {Name: "Wash & Fold"}}, nil).Once()
			},
			wantOut: []string{`No service named "Dry Clean"`, "Steam Iron (tag: Premium)", "Wash & Fold (tag: -)"},
		},
		{
			name:      "service flag is required",
			args:      []string{"set", "--tag", "Premium"},
			setupMock: func(*mocks.TagRepository) {},
			wantErr:   true,
		},
		{
			name: "database error",
			args: []string{"set", "--service", "Steam Iron"},
			setupMock: func(m *mocks.TagRepository) {
				m.On("UpdateServiceTag", mock.Anything, "Steam Iron", "").Return(nil, errors.New("db down")).Once()
			},
			wantErr: true,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repo := new(mocks.TagRepository)
			testCase.setupMock(repo)

			out, err := runCommand(t, repo, testCase.args...)

			if testCase.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			for _, want := range testCase.wantOut {
				assert.Contains(t, out, want)
			}
			repo.AssertExpectations(t)
		})
	}
}
