package server

import (
	"github.com/aristath/portfolio-advisor/internal/clients/yahoo"
	"github.com/aristath/portfolio-advisor/internal/modules/history"
	"github.com/aristath/portfolio-advisor/internal/modules/portfolio"
	"github.com/aristath/portfolio-advisor/internal/modules/rebalancing"
	"github.com/aristath/portfolio-advisor/internal/modules/signals"
	"github.com/aristath/portfolio-advisor/internal/modules/trading"
	"github.com/go-chi/chi/v5"
)

// Modules bundles the wired module services shared between the HTTP layer
// and the background jobs registered in main.
type Modules struct {
	HoldingsRepo     *portfolio.Repository
	HistoryRepo      *history.Repository
	SignalRepo       *signals.Repository
	SignalGenerator  *signals.Generator
	PortfolioService *portfolio.Service
	TradeRepo        *trading.TradeRepository
	Applier          *trading.Applier
	Rebalancing      *rebalancing.Service
	Quotes           *yahoo.Client
}

// BuildModules wires repositories and services on top of the database.
func (s *Server) BuildModules() *Modules {
	conn := s.db.Conn()

	holdingsRepo := portfolio.NewRepository(conn, s.log)
	historyRepo := history.NewRepository(conn, s.log)
	signalRepo := signals.NewRepository(conn, s.log)
	generator := signals.NewGenerator(historyRepo, signalRepo, s.log)
	portfolioService := portfolio.NewService(holdingsRepo, signalRepo, historyRepo, s.recorder, s.log)
	tradeRepo := trading.NewTradeRepository(conn, s.log)
	applier := trading.NewApplier(holdingsRepo, tradeRepo, s.log)
	rebalancingService := rebalancing.NewService(portfolioService, applier, s.recorder, s.log)

	return &Modules{
		HoldingsRepo:     holdingsRepo,
		HistoryRepo:      historyRepo,
		SignalRepo:       signalRepo,
		SignalGenerator:  generator,
		PortfolioService: portfolioService,
		TradeRepo:        tradeRepo,
		Applier:          applier,
		Rebalancing:      rebalancingService,
		Quotes:           yahoo.NewClient(s.log),
	}
}

// setupModuleRoutes mounts all module endpoints under /api.
func (s *Server) setupModuleRoutes(r chi.Router) {
	if s.modules == nil {
		s.modules = s.BuildModules()
	}
	m := s.modules

	portfolioHandler := portfolio.NewHandler(m.PortfolioService, s.log)
	rebalancingHandler := rebalancing.NewHandler(m.Rebalancing, s.log)
	signalsHandler := signals.NewHandler(m.SignalRepo, m.SignalGenerator, m.HoldingsRepo, s.log)
	tradingHandler := trading.NewHandler(m.TradeRepo, s.log)

	r.Route("/portfolio", func(r chi.Router) {
		r.Get("/", portfolioHandler.HandleGetPortfolio)
		r.Get("/summary", portfolioHandler.HandleGetSummary)
	})

	r.Route("/rebalancing", func(r chi.Router) {
		r.Get("/suggestions", rebalancingHandler.HandleGetSuggestions)
		r.Post("/apply", rebalancingHandler.HandleApply)
		r.Post("/apply-all", rebalancingHandler.HandleApplyAll)
	})

	r.Route("/signals", func(r chi.Router) {
		r.Get("/", signalsHandler.HandleGetSignals)
		r.Post("/refresh", signalsHandler.HandleRefresh)
	})

	r.Route("/trades", func(r chi.Router) {
		r.Get("/", tradingHandler.HandleGetTrades)
	})
}
