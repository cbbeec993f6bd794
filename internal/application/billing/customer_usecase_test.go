package billing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/application/billing"
	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/domain"
)

func TestCustomerUseCase_CrearYListar(t *testing.T) {
	f := newFixture(t)
	uc := billing.NewCustomerUseCase(f.store.Customers())
	ctx := context.Background()

	created, err := uc.Create(ctx, dto.CreateCustomerRequest{Name: "  Luis  ", Phone: "300"})
	require.NoError(t, err)
	assert.Equal(t, "Luis", created.Name)
	assert.Equal(t, anaID+1, created.ID)
	assert.True(t, created.IsActive)

	list, err := uc.List(ctx, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 3)
	assert.Equal(t, 20, list.Page.Limit)
}

func TestCustomerUseCase_NombreObligatorio(t *testing.T) {
	f := newFixture(t)
	uc := billing.NewCustomerUseCase(f.store.Customers())

	_, err := uc.Create(context.Background(), dto.CreateCustomerRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(context.Background(), dto.CreateCustomerRequest{Name: "X", CreditLimit: dp("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCustomerUseCase_VerificaClienteDeContado(t *testing.T) {
	f := newFixture(t)
	uc := billing.NewCustomerUseCase(f.store.Customers())

	ok, err := uc.VerifyFallbackCustomer(context.Background(), walkInID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = uc.VerifyFallbackCustomer(context.Background(), missingID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCustomerUseCase_EnsureFallbackCustomer(t *testing.T) {
	f := newFixture(t)
	uc := billing.NewCustomerUseCase(f.store.Customers())
	ctx := context.Background()

	created, err := uc.EnsureFallbackCustomer(ctx, walkInID, "otro nombre")
	require.NoError(t, err)
	assert.False(t, created, "ya existía")

	created, err = uc.EnsureFallbackCustomer(ctx, 50, "")
	require.NoError(t, err)
	assert.True(t, created)

	c, err := f.store.Customers().GetByID(ctx, 50)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "Cliente de contado", c.Name)
}
