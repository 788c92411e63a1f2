package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/km-arc/go-entob/app/models"
	"github.com/km-arc/go-entob/app/services"
	"github.com/km-arc/go-entob/framework/app"
	"github.com/km-arc/go-entob/framework/entity"
	gohttp "github.com/km-arc/go-entob/framework/http"
	"github.com/km-arc/go-entob/framework/routing"
	"github.com/km-arc/go-entob/framework/validators"
)

// PaymentController serves Money and Payment over HTTP.
type PaymentController struct {
	app.Controller
	ledger *services.Ledger
}

// NewPaymentController creates a controller reading from ledger.
func NewPaymentController(ledger *services.Ledger) *PaymentController {
	return &PaymentController{ledger: ledger}
}

// Routes registers the controller under r.
//
//	POST /money           → Money
//	POST /payments        → Store
//	GET  /payments        → Index
//	GET  /payments/{id}   → Show
func (c *PaymentController) Routes(r *routing.Router) {
	r.Post("/money", c.Money)
	r.Post("/payments", c.Store)
	r.Get("/payments", c.Index)
	r.Get("/payments/{id}", c.Show)
}

// Money validates a Money body and echoes the normalized value.
func (c *PaymentController) Money(w http.ResponseWriter, r *http.Request) {
	res := c.Respond(w, r)
	data, ok := c.values(res, r)
	if !ok {
		return
	}
	money, err := models.Money.New(data)
	if err != nil {
		res.Fail(err)
		return
	}
	res.Success(money)
}

// Store builds a Payment from the body and records it.
func (c *PaymentController) Store(w http.ResponseWriter, r *http.Request) {
	res := c.Respond(w, r)
	data, ok := c.values(res, r)
	if !ok {
		return
	}
	payment, err := models.Payment.New(data)
	if err != nil {
		res.Fail(err)
		return
	}
	if err := models.Record(payment); err != nil {
		if errors.Is(err, services.ErrDuplicate) {
			res.Error(http.StatusConflict, "The payment has already been recorded.")
			return
		}
		res.Fail(err)
		return
	}
	res.Created(payment)
}

// Index lists recorded payments with per-currency totals.
//
//	GET /payments?status=settled&limit=10
func (c *PaymentController) Index(w http.ResponseWriter, r *http.Request) {
	req := c.Request(r)
	res := c.Respond(w, r)

	query := req.QueryAll()
	v := validators.Make(query, validators.Rules{
		"status": "nullable|in:pending,settled,failed",
		"limit":  "nullable|integer|gte:1|lte:100",
	})
	if v.Fails() {
		res.ValidationError(v.Errors())
		return
	}

	payments := c.ledger.List(query["status"])
	if limit, err := strconv.Atoi(query["limit"]); err == nil && limit < len(payments) {
		payments = payments[:limit]
	}

	totals := make(map[string]string)
	for currency, sum := range c.ledger.Totals() {
		totals[currency] = sum.StringFixed(2)
	}
	res.Success(map[string]any{
		"payments": payments,
		"totals":   totals,
		"count":    len(payments),
	})
}

// Show returns one payment.
func (c *PaymentController) Show(w http.ResponseWriter, r *http.Request) {
	res := c.Respond(w, r)
	payment, ok := c.ledger.Get(routing.Param(r, "id"))
	if !ok {
		res.NotFound("Payment not found.")
		return
	}
	res.Success(payment)
}

func (c *PaymentController) values(res *gohttp.Response, r *http.Request) (entity.Values, bool) {
	data, err := c.Request(r).Values()
	if errors.Is(err, gohttp.ErrBodyTooLarge) {
		res.Error(http.StatusRequestEntityTooLarge, err.Error())
		return nil, false
	}
	if err != nil {
		res.Error(http.StatusBadRequest, err.Error())
		return nil, false
	}
	return data, true
}
