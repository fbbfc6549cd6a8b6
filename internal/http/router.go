package httpserver

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aklilumengesha/Battery-Swap/internal/http/middleware"
)

// RouterDeps collects handler dependencies.
type RouterDeps struct {
	Signup             http.HandlerFunc
	SignIn             http.HandlerFunc
	FindStations       http.HandlerFunc
	GetStation         http.HandlerFunc
	CreateOrder        http.HandlerFunc
	ListOrders         http.HandlerFunc
	GetOrder           http.HandlerFunc
	CollectOrder       http.HandlerFunc
	ExportOrders       http.HandlerFunc
	OrderReceipt       http.HandlerFunc
	GetConsumer        http.HandlerFunc
	UpdateConsumer     http.HandlerFunc
	DeleteConsumer     http.HandlerFunc
	ListVehicles       http.HandlerFunc
	ListPlans          http.HandlerFunc
	Subscribe          http.HandlerFunc
	MySubscription     http.HandlerFunc
	SubscriptionStatus http.HandlerFunc
	StationStream      http.HandlerFunc
	Health             http.HandlerFunc
}

// NewRouter wires all HTTP routes. Authenticated routes run behind the JWT
// middleware; the whole mux is wrapped with request metrics.
func NewRouter(deps RouterDeps, auth func(http.Handler) http.Handler) http.Handler {
	mux := http.NewServeMux()

	authenticated := func(handler http.HandlerFunc) http.Handler {
		return middleware.Chain(handler, auth)
	}

	mux.Handle("GET /health", deps.Health)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.Handle("POST /user/signup/", deps.Signup)
	mux.Handle("POST /user/signin/", deps.SignIn)

	mux.Handle("GET /power/stations/find/{userId}/", authenticated(deps.FindStations))
	mux.Handle("GET /power/station/get/{id}/", authenticated(deps.GetStation))
	mux.Handle("GET /power/vehicles/list/", deps.ListVehicles)

	mux.Handle("POST /user/orders/", authenticated(deps.CreateOrder))
	mux.Handle("GET /user/orders/", authenticated(deps.ListOrders))
	mux.Handle("GET /user/orders/export.xlsx", authenticated(deps.ExportOrders))
	mux.Handle("GET /user/order/{id}/", authenticated(deps.GetOrder))
	mux.Handle("GET /user/order/{id}/receipt.pdf", authenticated(deps.OrderReceipt))
	mux.Handle("POST /user/order/collect/{id}/", authenticated(deps.CollectOrder))

	mux.Handle("GET /consumer/manage/", authenticated(deps.GetConsumer))
	mux.Handle("PUT /consumer/manage/", authenticated(deps.UpdateConsumer))
	mux.Handle("DELETE /consumer/manage/", authenticated(deps.DeleteConsumer))

	mux.Handle("GET /api/plans/", deps.ListPlans)
	mux.Handle("POST /api/subscribe/", authenticated(deps.Subscribe))
	mux.Handle("GET /api/my-subscription/", authenticated(deps.MySubscription))
	mux.Handle("GET /api/subscription-status/", authenticated(deps.SubscriptionStatus))

	mux.Handle("GET /ws/stations/{id}", deps.StationStream)

	return middleware.Metrics(mux)
}
