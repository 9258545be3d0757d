// Package cart is the client side ordering flow: pick products from a catalog,
// review them at checkout and confirm them into an order.
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Alturino/ordering/client/internal/otel"
	"github.com/Alturino/ordering/internal/constants"
	inOtel "github.com/Alturino/ordering/internal/otel"
	"github.com/Alturino/ordering/order/pkg/response"
)

type State string

const (
	STATE_BROWSING State = "browsing"
	STATE_BUILDING State = "building"
	STATE_CHECKOUT State = "checkout"
	STATE_PLACED   State = "placed"
)

var (
	ErrInvalidTransition = errors.New("invalid cart transition")
	ErrUnknownProduct    = errors.New("unknown product")
)

type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

func (i CartItem) Subtotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderPlacer submits the confirmed cart.
type OrderPlacer interface {
	PlaceOrder(c context.Context, items []CartItem) (response.Order, error)
}

type Option func(*Cart)

func WithPlacer(placer OrderPlacer) Option {
	return func(cart *Cart) { cart.placer = placer }
}

type Cart struct {
	mu     sync.Mutex
	items  []CartItem
	index  map[string]int
	state  State
	placed bool
	placer OrderPlacer
}

// New returns an empty cart. Without a placer confirming only resets the cart
// locally.
func New(opts ...Option) *Cart {
	cart := &Cart{index: map[string]int{}, state: STATE_BROWSING}
	for _, opt := range opts {
		opt(cart)
	}
	return cart
}

// AddToCart merges p into the cart by product id.
func (cart *Cart) AddToCart(c context.Context, p Product) error {
	cart.mu.Lock()
	defer cart.mu.Unlock()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "Cart AddToCart").
		Str(constants.KEY_CART_STATE, string(cart.state)).
		Str(constants.KEY_PROCESS, "adding product to cart").
		Logger()

	if cart.state != STATE_BROWSING && cart.state != STATE_BUILDING {
		err := transitionError(cart.state, STATE_BUILDING)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	logger.Trace().Msgf("adding productId=%s to cart", p.ID)
	cart.placed = false
	if i, ok := cart.index[p.ID]; ok {
		cart.items[i].Quantity++
	} else {
		cart.index[p.ID] = len(cart.items)
		cart.items = append(cart.items, CartItem{Product: p, Quantity: 1})
	}
	cart.state = STATE_BUILDING
	logger.Trace().Int(constants.KEY_CART_ITEMS, len(cart.items)).Msgf("added productId=%s to cart", p.ID)
	return nil
}

// Items returns a copy of the cart lines in insertion order.
func (cart *Cart) Items() []CartItem {
	cart.mu.Lock()
	defer cart.mu.Unlock()
	items := make([]CartItem, len(cart.items))
	copy(items, cart.items)
	return items
}

// Count is the number of units in the cart.
func (cart *Cart) Count() int {
	cart.mu.Lock()
	defer cart.mu.Unlock()
	count := 0
	for _, item := range cart.items {
		count += item.Quantity
	}
	return count
}

func (cart *Cart) Total() decimal.Decimal {
	cart.mu.Lock()
	defer cart.mu.Unlock()
	total := decimal.Zero
	for _, item := range cart.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

func (cart *Cart) Checkout(c context.Context) error {
	return cart.transition(c, STATE_BUILDING, STATE_CHECKOUT)
}

func (cart *Cart) Cancel(c context.Context) error {
	return cart.transition(c, STATE_CHECKOUT, STATE_BUILDING)
}

// ConfirmOrder places the order, empties the cart and sets the placed flag.
// The cart stays at checkout when the placer fails.
func (cart *Cart) ConfirmOrder(c context.Context) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "Cart ConfirmOrder")
	defer span.End()

	cart.mu.Lock()
	defer cart.mu.Unlock()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "Cart ConfirmOrder").
		Str(constants.KEY_CART_STATE, string(cart.state)).
		Int(constants.KEY_CART_ITEMS, len(cart.items)).
		Logger()

	if cart.state != STATE_CHECKOUT {
		err := transitionError(cart.state, STATE_PLACED)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}

	order := response.Order{}
	if cart.placer != nil {
		logger = logger.With().Str(constants.KEY_PROCESS, "placing order").Logger()
		logger.Info().Msg("placing order")
		items := make([]CartItem, len(cart.items))
		copy(items, cart.items)
		placed, err := cart.placer.PlaceOrder(c, items)
		if err != nil {
			err = fmt.Errorf("failed placing order with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Order{}, err
		}
		order = placed
		logger.Info().Str(constants.KEY_ORDER_ID, order.ID.String()).Msg("placed order")
	}

	cart.state = STATE_PLACED
	cart.clear()
	cart.placed = true
	logger.Trace().Msgf("moved cart from %s to %s", STATE_CHECKOUT, STATE_PLACED)
	cart.state = STATE_BROWSING
	logger.Trace().Msgf("moved cart from %s to %s", STATE_PLACED, STATE_BROWSING)
	return order, nil
}

// Clear empties the cart and returns to browsing.
func (cart *Cart) Clear() {
	cart.mu.Lock()
	defer cart.mu.Unlock()
	cart.clear()
	cart.state = STATE_BROWSING
}

// Reset is Clear plus forgetting that an order was placed.
func (cart *Cart) Reset() {
	cart.mu.Lock()
	defer cart.mu.Unlock()
	cart.clear()
	cart.placed = false
	cart.state = STATE_BROWSING
}

func (cart *Cart) State() State {
	cart.mu.Lock()
	defer cart.mu.Unlock()
	return cart.state
}

func (cart *Cart) OrderPlaced() bool {
	cart.mu.Lock()
	defer cart.mu.Unlock()
	return cart.placed
}

func (cart *Cart) transition(c context.Context, from, to State) error {
	cart.mu.Lock()
	defer cart.mu.Unlock()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "Cart transition").
		Str(constants.KEY_CART_STATE, string(cart.state)).
		Logger()

	if cart.state != from {
		err := transitionError(cart.state, to)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	cart.state = to
	logger.Trace().Msgf("moved cart from %s to %s", from, to)
	return nil
}

func (cart *Cart) clear() {
	cart.items = nil
	cart.index = map[string]int{}
}

func transitionError(from, to State) error {
	return fmt.Errorf("%w from %s to %s", ErrInvalidTransition, from, to)
}
