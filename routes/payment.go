package routes

import (
	"log"
	"os"
	"strings"

	"parkpal-server/utils"

	"github.com/google/uuid"
	"github.com/kataras/iris/v12"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
)

type CreatePaymentIntentInput struct {
	OrderID       string `json:"orderId" validate:"required,max=128"`
	Amount        int64  `json:"amount" validate:"required,gt=0"` // minor units
	Currency      string `json:"currency" validate:"required,len=3"`
	CustomerEmail string `json:"customerEmail" validate:"required,email"`
}

// CreatePaymentIntent creates a payment intent with the processor and relays
// its client secret. Processor errors stay in the server log; the caller only
// sees a generic failure.
func CreatePaymentIntent(ctx iris.Context) {
	var input CreatePaymentIntentInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	secretKey := os.Getenv("STRIPE_SECRET_KEY")
	if secretKey == "" {
		log.Println("CreatePaymentIntent: STRIPE_SECRET_KEY not set")
		utils.JSONError(ctx, iris.StatusInternalServerError, "payment_failed", "payment processing unavailable")
		return
	}
	stripe.Key = secretKey

	params := &stripe.PaymentIntentParams{
		Amount:       stripe.Int64(input.Amount),
		Currency:     stripe.String(strings.ToLower(input.Currency)),
		ReceiptEmail: stripe.String(input.CustomerEmail),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("order_id", input.OrderID)
	params.SetIdempotencyKey(uuid.NewString())

	intent, err := paymentintent.New(params)
	if err != nil {
		log.Printf("CreatePaymentIntent: stripe error for order %s: %v", input.OrderID, err)
		utils.JSONError(ctx, iris.StatusInternalServerError, "payment_failed", "could not create payment intent")
		return
	}

	ctx.JSON(iris.Map{"client_secret": intent.ClientSecret})
}
