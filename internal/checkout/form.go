package checkout

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/goustty/storefront/pkg/errors"
	"github.com/goustty/storefront/pkg/types"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// Form is the checkout input: contact, shipping address and card fields.
// Card data stays in-process; only the shipping and contact blocks travel
// with the order.
type Form struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required"`
	Address   string `json:"address" validate:"required"`
	City      string `json:"city" validate:"required"`
	Zip       string `json:"zip" validate:"required"`

	CardNumber string `json:"cardNumber" validate:"required"`
	CardExpiry string `json:"cardExpiry" validate:"required"`
	CardCVC    string `json:"cardCvc" validate:"required,len=3|len=4"`
}

// Validate checks required fields, then the card number against the Luhn
// checksum and the expiry against the MM/YY format and the current month.
func (f Form) Validate(now time.Time) error {
	if err := validate.Struct(f); err != nil {
		return formatValidationErrors(err)
	}

	if !luhnValid(f.CardNumber) {
		return pkgerrors.New(pkgerrors.CodeValidation, "card number failed checksum").
			WithDetails(map[string]string{"cardNumber": "is invalid"})
	}
	if err := expiryValid(f.CardExpiry, now); err != nil {
		return err
	}
	return nil
}

// ShippingDetails maps the address block to the order's wire shape.
func (f Form) ShippingDetails() types.ShippingDetails {
	return types.ShippingDetails{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Address:   f.Address,
		City:      f.City,
		Zip:       f.Zip,
		Phone:     f.Phone,
	}
}

// CustomerName joins the contact name fields.
func (f Form) CustomerName() string {
	return strings.TrimSpace(f.FirstName + " " + f.LastName)
}

func formatValidationErrors(err error) error {
	if errs, ok := err.(validator.ValidationErrors); ok {
		details := map[string]string{}
		for _, fieldErr := range errs {
			details[fieldErr.Field()] = validationMessage(fieldErr)
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "len":
		return fmt.Sprintf("must be %s characters", fe.Param())
	}
	return "is invalid"
}

// luhnValid runs the Luhn checksum over the digits of the card number,
// ignoring spaces and dashes.
func luhnValid(number string) bool {
	digits := make([]int, 0, len(number))
	for _, r := range number {
		switch {
		case r >= '0' && r <= '9':
			digits = append(digits, int(r-'0'))
		case r == ' ' || r == '-':
		default:
			return false
		}
	}
	if len(digits) < 12 {
		return false
	}

	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := digits[i]
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// expiryValid parses MM/YY and rejects cards expired before the current
// month.
func expiryValid(expiry string, now time.Time) error {
	invalid := pkgerrors.New(pkgerrors.CodeValidation, "card expiry must be MM/YY").
		WithDetails(map[string]string{"cardExpiry": "is invalid"})

	parts := strings.Split(strings.TrimSpace(expiry), "/")
	if len(parts) != 2 {
		return invalid
	}
	month, err := strconv.Atoi(parts[0])
	if err != nil || month < 1 || month > 12 {
		return invalid
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil || len(parts[1]) != 2 {
		return invalid
	}
	year += 2000

	endOfMonth := time.Date(year, time.Month(month)+1, 1, 0, 0, 0, 0, time.UTC)
	if !now.Before(endOfMonth) {
		return pkgerrors.New(pkgerrors.CodeValidation, "card is expired").
			WithDetails(map[string]string{"cardExpiry": "is expired"})
	}
	return nil
}
