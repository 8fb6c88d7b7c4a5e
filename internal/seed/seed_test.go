package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"retail-customers/internal/domain"
	custrepo "retail-customers/internal/repository/customer"
	"retail-customers/internal/repository/customer/mocks"
	custsvc "retail-customers/internal/service/customer"
)

func TestDemoCustomersAreValid(t *testing.T) {
	for _, s := range demoCustomers {
		age := s.Age
		assert.NoError(t, domain.Customer{DNI: s.DNI, Age: &age}.Validate(), s.DNI)
	}
}

func TestApply_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, err := custsvc.New(custrepo.NewMemory())
	require.NoError(t, err)

	n, err := Apply(ctx, svc, nil)
	require.NoError(t, err)
	assert.Equal(t, len(demoCustomers), n)

	n, err = Apply(ctx, svc, nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	all, err := svc.GetAllCustomers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, len(demoCustomers))
}

func TestApply_ListFailureStopsEarly(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	boom := errors.New("connection refused")
	repo.EXPECT().FindAll(gomock.Any()).Return(nil, boom)

	svc, err := custsvc.New(repo)
	require.NoError(t, err)

	_, err = Apply(context.Background(), svc, nil)
	assert.ErrorIs(t, err, boom)
}

func TestApply_ReportsPartialProgress(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	boom := errors.New("disk full")
	id := int64(1)
	gomock.InOrder(
		repo.EXPECT().FindAll(gomock.Any()).Return([]domain.Customer{}, nil),
		repo.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, c domain.Customer) (*domain.Customer, error) {
				c.ID = &id
				return &c, nil
			}),
		repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil, boom),
	)

	svc, err := custsvc.New(repo)
	require.NoError(t, err)

	n, err := Apply(context.Background(), svc, nil)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, n)
}
