package validate

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	TAG_DECIMAL_NON_NEGATIVE = "dnonneg"
	TAG_RATING               = "rating"
	TAG_ORDER_STATUS         = "order_status"
)

var orderStatuses = map[string]struct{}{
	"pending":   {},
	"preparing": {},
	"ready":     {},
	"delivered": {},
	"cancelled": {},
}

// New returns a validator reporting json field names and knowing the decimal
// and order status tags.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{}, decimal.NullDecimal{})
	_ = v.RegisterValidation(TAG_DECIMAL_NON_NEGATIVE, nonNegativeDecimal)
	_ = v.RegisterValidation(TAG_RATING, rating)
	_ = v.RegisterValidation(TAG_ORDER_STATUS, orderStatus)
	return v
}

func IsOrderStatus(s string) bool {
	_, ok := orderStatuses[s]
	return ok
}

func jsonName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}

// decimalValue exposes decimals to the validator as their string form.
func decimalValue(v reflect.Value) interface{} {
	switch d := v.Interface().(type) {
	case decimal.Decimal:
		return d.String()
	case decimal.NullDecimal:
		if !d.Valid {
			return nil
		}
		return d.Decimal.String()
	}
	return nil
}

func parseDecimal(fl validator.FieldLevel) (decimal.Decimal, bool) {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(field.String())
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

func nonNegativeDecimal(fl validator.FieldLevel) bool {
	d, ok := parseDecimal(fl)
	return ok && !d.IsNegative()
}

func rating(fl validator.FieldLevel) bool {
	d, ok := parseDecimal(fl)
	return ok && !d.IsNegative() && d.LessThanOrEqual(decimal.NewFromInt(5))
}

func orderStatus(fl validator.FieldLevel) bool {
	return IsOrderStatus(fl.Field().String())
}
