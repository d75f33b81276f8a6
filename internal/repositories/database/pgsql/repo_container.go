package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/opsuite/opsuite_backend/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		OrganizationRepo: newPgxOrganizationRepository(dbPool),
		OnboardingRepo:   newPgxOnboardingRepository(dbPool),
		SubscriptionRepo: newPgxSubscriptionKeyRepository(dbPool),
		RoleRepo:         newPgxRoleRepository(dbPool),
		NotificationRepo: newPgxNotificationRepository(dbPool),
		HRRepo:           newPgxHRRepository(dbPool),
		FinanceRepo:      newPgxFinanceRepository(dbPool),
		UserRepo:         newPgxUserRepository(dbPool),
	}
}
