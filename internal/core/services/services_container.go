package services

import (
	portsrepo "github.com/aquaerp/aqua-accounting/internal/core/ports/repositories"
	portssvc "github.com/aquaerp/aqua-accounting/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// trail may be nil when no broker is configured.
func NewServiceContainer(repos portsrepo.RepositoryProvider, trail portssvc.EntryTrailPublisher) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.AccountRepo, repos.ReportingRepo)
	container.Journal = NewJournalService(repos.JournalRepo, repos.AccountRepo)
	container.Reporting = NewReportingService(repos.ReportingRepo)
	container.Posting = NewPostingService(container.Journal, container.Account, repos.BatchRepo, trail)
	container.Revaluation = NewRevaluationService(repos.RevaluationRepo, repos.JournalRepo, repos.BatchRepo, container.Account)

	// The dispatcher is what the event ingestion endpoints invoke; a mapper
	// failure is logged there and never propagates to the caller.
	container.Dispatcher = NewEventDispatcher()
	RegisterMappers(container.Dispatcher, container.Posting)

	return container
}
