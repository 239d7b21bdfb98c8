package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// NewRouter wires every handler onto the API surface.
func NewRouter(
	logger *logrus.Logger,
	tickets *TicketHandler,
	bar *BarHandler,
	invitations *InvitationHandler,
	incidents *IncidentHandler,
	codes *CodeHandler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogger(logger))

	r.Route("/api/tickets", func(r chi.Router) {
		r.Get("/price/{attendeeID}", tickets.GetPrice)
		r.Post("/issue", tickets.IssueTicket)
		r.Post("/verify", tickets.Verify)
		r.Post("/confirm-payment", tickets.ConfirmPayment)
	})

	r.Route("/api/invitations", func(r chi.Router) {
		r.Post("/", invitations.Create)
		r.Post("/accept", invitations.Accept)
		r.Get("/{inviterID}", invitations.List)
	})

	r.Route("/api/bar", func(r chi.Router) {
		r.Get("/items", bar.ListItems)
		r.Get("/inventory", bar.ListInventory)
		r.Put("/inventory/{itemID}", bar.SetStock)
		r.Post("/sales", bar.RecordSale)
		r.Get("/sales/{operatorID}", bar.OperatorSales)
		r.Get("/balances", bar.Balances)
		r.Get("/balances/{operatorID}", bar.Outstanding)
		r.Post("/payouts", bar.CreatePayout)
	})

	r.Route("/api/incidents", func(r chi.Router) {
		r.Get("/", incidents.List)
		r.Post("/", incidents.Create)
		r.Get("/{incidentID}", incidents.Get)
		r.Post("/{incidentID}/assign", incidents.Assign)
		r.Post("/{incidentID}/unassign", incidents.Unassign)
		r.Put("/{incidentID}/status", incidents.UpdateStatus)
		r.Put("/{incidentID}/people-available", incidents.UpdatePeopleAvailable)
	})

	// Internal surface for the identity layer.
	r.Route("/internal/auth-codes", func(r chi.Router) {
		r.Post("/", codes.Put)
		r.Post("/check", codes.Check)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}
