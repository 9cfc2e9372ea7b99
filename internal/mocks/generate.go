// Package mocks provides mock implementations for testing the alert engine.
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
//	mockRepo := mocks.NewMockAlertRepository(ctrl)
//	mockRepo.EXPECT().GetByID(gomock.Any(), "a1").Return(alert, nil)
package mocks

// Generate mock for AlertRepository interface from internal/core package.
// This creates MockAlertRepository with methods for all AlertRepository interface methods:
// GetByID, FindOpenDuplicate, Create, List, Count, TryAcknowledge, TryResolve, BulkAcknowledge
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=alert_repository_mock.go github.com/target/fleet-alerts/internal/core AlertRepository

// Generate mock for DeviceRepository interface from internal/core package.
// This creates MockDeviceRepository with methods: GetByID, Upsert
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=device_repository_mock.go github.com/target/fleet-alerts/internal/core DeviceRepository

// Generate mock for AlertEventPublisher interface from internal/core package.
// This creates MockAlertEventPublisher with method: Publish
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=alert_event_publisher_mock.go github.com/target/fleet-alerts/internal/core AlertEventPublisher
