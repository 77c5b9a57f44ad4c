package cart

import (
	"context"
	"errors"
	"testing"

	domainCart "ecommerce-backend/internal/domain/cart"
	domainCatalog "ecommerce-backend/internal/domain/catalog"
	"ecommerce-backend/internal/domain/event"
	"ecommerce-backend/internal/domain/event/mocks"
	appErrors "ecommerce-backend/pkg/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type memProducts struct {
	items map[uuid.UUID]*domainCatalog.Product
	err   error
}

func (m *memProducts) Create(_ context.Context, p *domainCatalog.Product) error {
	m.items[p.ID] = p
	return nil
}

func (m *memProducts) GetByID(_ context.Context, id uuid.UUID) (*domainCatalog.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	if p, ok := m.items[id]; ok {
		return p, nil
	}
	return nil, domainCatalog.ErrProductNotFound
}

func (m *memProducts) GetActiveByID(ctx context.Context, id uuid.UUID) (*domainCatalog.Product, error) {
	return m.GetByID(ctx, id)
}

func (m *memProducts) ListActive(context.Context) ([]*domainCatalog.Product, error) {
	return nil, nil
}

func (m *memProducts) ListByCategory(context.Context, uuid.UUID) ([]*domainCatalog.Product, error) {
	return nil, nil
}

type memCart struct {
	products *memProducts
	lines    []*domainCart.Item
	err      error
}

func (m *memCart) withProduct(item *domainCart.Item) *domainCart.Item {
	copied := *item
	copied.Product = m.products.items[item.ProductID]
	return &copied
}

func (m *memCart) ListByUser(_ context.Context, userID uuid.UUID) ([]*domainCart.Item, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*domainCart.Item
	for _, line := range m.lines {
		if line.UserID == userID {
			out = append(out, m.withProduct(line))
		}
	}
	return out, nil
}

func (m *memCart) GetByID(_ context.Context, userID, itemID uuid.UUID) (*domainCart.Item, error) {
	for _, line := range m.lines {
		if line.ID == itemID && line.UserID == userID {
			return m.withProduct(line), nil
		}
	}
	return nil, domainCart.ErrCartItemNotFound
}

func (m *memCart) AddOrIncrement(_ context.Context, item *domainCart.Item) (*domainCart.Item, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, line := range m.lines {
		if line.UserID == item.UserID && line.ProductID == item.ProductID {
			line.Quantity += item.Quantity
			return m.withProduct(line), nil
		}
	}
	item.ID = uuid.New()
	m.lines = append(m.lines, item)
	return m.withProduct(item), nil
}

func (m *memCart) UpdateQuantity(_ context.Context, userID, itemID uuid.UUID, quantity int) error {
	for _, line := range m.lines {
		if line.ID == itemID && line.UserID == userID {
			line.Quantity = quantity
			return nil
		}
	}
	return domainCart.ErrCartItemNotFound
}

func (m *memCart) Delete(_ context.Context, userID, itemID uuid.UUID) error {
	for i, line := range m.lines {
		if line.ID == itemID && line.UserID == userID {
			m.lines = append(m.lines[:i], m.lines[i+1:]...)
			return nil
		}
	}
	return domainCart.ErrCartItemNotFound
}

func (m *memCart) ClearByUser(_ context.Context, userID uuid.UUID) error {
	kept := m.lines[:0]
	for _, line := range m.lines {
		if line.UserID != userID {
			kept = append(kept, line)
		}
	}
	m.lines = kept
	return nil
}

func (m *memCart) Replace(ctx context.Context, item *domainCart.Item) (*domainCart.Item, error) {
	if err := m.ClearByUser(ctx, item.UserID); err != nil {
		return nil, err
	}
	return m.AddOrIncrement(ctx, item)
}

type fixture struct {
	svc      *Service
	cart     *memCart
	products *memProducts
	figure   *domainCatalog.Product
	poster   *domainCatalog.Product
}

func newFixture(t *testing.T, publisher event.Publisher) *fixture {
	t.Helper()
	products := &memProducts{items: map[uuid.UUID]*domainCatalog.Product{}}
	figure := &domainCatalog.Product{ID: uuid.New(), Name: "Figure", Price: decimal.RequireFromString("49.90"), IsActive: true}
	poster := &domainCatalog.Product{ID: uuid.New(), Name: "Poster", Price: decimal.RequireFromString("12.50"), IsActive: true}
	products.items[figure.ID] = figure
	products.items[poster.ID] = poster

	c := &memCart{products: products}
	return &fixture{
		svc:      NewService(c, products, publisher),
		cart:     c,
		products: products,
		figure:   figure,
		poster:   poster,
	}
}

func TestAddToCart_DefaultsQuantityAndIncrements(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	userID := uuid.New()

	first, err := f.svc.AddToCart(ctx, userID, &AddToCartRequest{ProductID: f.figure.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Quantity)

	second, err := f.svc.AddToCart(ctx, userID, &AddToCartRequest{ProductID: f.figure.ID, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 3, second.Quantity)
	assert.True(t, decimal.RequireFromString("149.70").Equal(second.Subtotal))
	require.NotNil(t, second.Product)
	assert.Equal(t, "Figure", second.Product.Name)
}

func TestAddToCart_Errors(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.svc.AddToCart(ctx, uuid.New(), &AddToCartRequest{})
	assert.Equal(t, appErrors.KindValidation, appErrors.KindOf(err))

	_, err = f.svc.AddToCart(ctx, uuid.New(), &AddToCartRequest{ProductID: uuid.New()})
	require.Error(t, err)
	assert.Equal(t, appErrors.KindNotFound, appErrors.KindOf(err))
	var appErr *appErrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, msgProductNotFound, appErr.Message)

	f.products.err = errors.New("connection reset")
	_, err = f.svc.AddToCart(ctx, uuid.New(), &AddToCartRequest{ProductID: f.figure.ID})
	assert.Equal(t, appErrors.KindInternal, appErrors.KindOf(err))
}

func TestGetCart_Totals(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	userID := uuid.New()

	_, err := f.svc.AddToCart(ctx, userID, &AddToCartRequest{ProductID: f.figure.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = f.svc.AddToCart(ctx, userID, &AddToCartRequest{ProductID: f.poster.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = f.svc.AddToCart(ctx, uuid.New(), &AddToCartRequest{ProductID: f.poster.ID, Quantity: 5})
	require.NoError(t, err)

	cart, err := f.svc.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 2, cart.TotalItems)
	assert.Equal(t, "112.30", cart.TotalAmount.StringFixed(2))
}

func TestGetCart_Empty(t *testing.T) {
	f := newFixture(t, nil)

	cart, err := f.svc.GetCart(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, cart.Items)
	assert.Equal(t, 0, cart.TotalItems)
	assert.True(t, cart.TotalAmount.IsZero())
}

func TestUpdateCartItem(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	userID := uuid.New()

	line, err := f.svc.AddToCart(ctx, userID, &AddToCartRequest{ProductID: f.figure.ID})
	require.NoError(t, err)

	updated, removed, err := f.svc.UpdateCartItem(ctx, userID, line.ID, &UpdateCartItemRequest{Quantity: 4})
	require.NoError(t, err)
	assert.False(t, removed)
	require.NotNil(t, updated)
	assert.Equal(t, 4, updated.Quantity)

	_, removed, err = f.svc.UpdateCartItem(ctx, uuid.New(), line.ID, &UpdateCartItemRequest{Quantity: 2})
	assert.Equal(t, appErrors.KindNotFound, appErrors.KindOf(err))
	assert.False(t, removed)

	gone, removed, err := f.svc.UpdateCartItem(ctx, userID, line.ID, &UpdateCartItemRequest{Quantity: 0})
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Nil(t, gone)
	assert.Empty(t, f.cart.lines)

	_, removed, err = f.svc.UpdateCartItem(ctx, userID, line.ID, &UpdateCartItemRequest{Quantity: 0})
	assert.Equal(t, appErrors.KindNotFound, appErrors.KindOf(err))
	assert.False(t, removed)
}

func TestRemoveAndClear(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	userID := uuid.New()

	line, err := f.svc.AddToCart(ctx, userID, &AddToCartRequest{ProductID: f.figure.ID})
	require.NoError(t, err)
	_, err = f.svc.AddToCart(ctx, userID, &AddToCartRequest{ProductID: f.poster.ID})
	require.NoError(t, err)

	require.NoError(t, f.svc.RemoveFromCart(ctx, userID, line.ID))
	err = f.svc.RemoveFromCart(ctx, userID, line.ID)
	assert.Equal(t, appErrors.KindNotFound, appErrors.KindOf(err))

	require.NoError(t, f.svc.ClearCart(ctx, userID))
	cart, err := f.svc.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 0, cart.TotalItems)
}

func TestBuyNow_ReplacesCartAndPublishes(t *testing.T) {
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockPublisher(ctrl)
	f := newFixture(t, publisher)
	ctx := context.Background()
	userID := uuid.New()

	_, err := f.svc.AddToCart(ctx, userID, &AddToCartRequest{ProductID: f.poster.ID, Quantity: 3})
	require.NoError(t, err)

	publisher.EXPECT().
		Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e event.Event) error {
			assert.Equal(t, event.CartCheckoutReady, e.Type)
			assert.Equal(t, userID.String(), e.Payload["user_id"])
			assert.Equal(t, "99.80", e.Payload["amount"])
			return nil
		})

	resp, err := f.svc.BuyNow(ctx, userID, &AddToCartRequest{ProductID: f.figure.ID, Quantity: 2})
	require.NoError(t, err)
	assert.True(t, resp.CheckoutReady)
	assert.Equal(t, 2, resp.Item.Quantity)

	cart, err := f.svc.GetCart(ctx, userID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, f.figure.ID, cart.Items[0].ProductID)
}

func TestBuyNow_PublishFailureIsNotFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockPublisher(ctrl)
	f := newFixture(t, publisher)

	publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("broker offline"))

	resp, err := f.svc.BuyNow(context.Background(), uuid.New(), &AddToCartRequest{ProductID: f.figure.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Item.Quantity)
}

func TestBuyNow_UnknownProduct(t *testing.T) {
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockPublisher(ctrl)
	f := newFixture(t, publisher)
	ctx := context.Background()
	userID := uuid.New()

	_, err := f.svc.AddToCart(ctx, userID, &AddToCartRequest{ProductID: f.poster.ID})
	require.NoError(t, err)

	_, err = f.svc.BuyNow(ctx, userID, &AddToCartRequest{ProductID: uuid.New()})
	assert.Equal(t, appErrors.KindNotFound, appErrors.KindOf(err))
	assert.Len(t, f.cart.lines, 1)
}
