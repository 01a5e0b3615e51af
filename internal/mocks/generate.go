// Package mocks provides mock implementations for testing the lookalike job system.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our repository interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockRepo := mocks.NewMockJobRepository(ctrl)
//	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(job, nil)
package mocks

// Generate mock for JobRepository interface from internal/core package.
// This creates MockJobRepository with methods for all JobRepository interface methods:
// Create, GetByID, ReserveNext, WaitForNotification, Heartbeat, Complete, Fail, Stats, List, Delete
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=job_repository_mock.go github.com/giftwell/lookalike-api/internal/core JobRepository

// Generate mock for JobResultRepository interface from internal/core package.
// This creates MockJobResultRepository with methods for all JobResultRepository interface methods:
// Append, ListByJobID, CountByJobID
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=job_result_repository_mock.go github.com/giftwell/lookalike-api/internal/core JobResultRepository

// Generate mock for ListRepository interface from internal/core package.
// This creates MockListRepository with methods for all ListRepository interface methods:
// Create, GetByID, List, SetStatus, AppendRecipient, RefreshCount, ListRecipients, Delete
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=list_repository_mock.go github.com/giftwell/lookalike-api/internal/core ListRepository

// Generate mock for RecipientRepository interface from internal/core package.
// This creates MockRecipientRepository with methods for all RecipientRepository interface methods:
// Create, GetByID, BackfillCampaign
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=recipient_repository_mock.go github.com/giftwell/lookalike-api/internal/core RecipientRepository

// Generate mock for CampaignRepository interface from internal/core package.
// This creates MockCampaignRepository with methods for all CampaignRepository interface methods:
// Create, GetByID, List, Update, Finalize, Delete
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=campaign_repository_mock.go github.com/giftwell/lookalike-api/internal/core CampaignRepository

// Generate mock for ReaperRepository interface from internal/core package.
// This creates MockReaperRepository with methods for all ReaperRepository interface methods:
// RequeueExpiredLeases, FailStalePendingJobs, DeleteOldJobs, DeleteOldJobResults
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=reaper_repository_mock.go github.com/giftwell/lookalike-api/internal/core ReaperRepository
