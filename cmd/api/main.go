package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fundmanager/pkg/auth"
	"fundmanager/pkg/config"
	"fundmanager/pkg/session"
	"fundmanager/pkg/store"
)

// Server holds the shared collaborators and the open user sessions.
type Server struct {
	storage store.Storage
	auth    *auth.Service

	// One operation at a time: every mutating request runs to completion
	// before the next is accepted.
	mu       sync.Mutex
	sessions map[string]*session.Session // keyed by user id
}

func NewServer(s store.Storage, a *auth.Service) *Server {
	return &Server{
		storage:  s,
		auth:     a,
		sessions: make(map[string]*session.Session),
	}
}

func (s *Server) router() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/signup", s.signupHandler).Methods("POST")
	router.HandleFunc("/login", s.loginHandler).Methods("POST")
	router.HandleFunc("/logout", s.logoutHandler).Methods("POST")

	router.HandleFunc("/loans", s.listLoansHandler).Methods("GET")
	router.HandleFunc("/loans", s.createLoanHandler).Methods("POST")
	router.HandleFunc("/loans/{id}", s.getLoanHandler).Methods("GET")
	router.HandleFunc("/loans/{id}", s.deleteLoanHandler).Methods("DELETE")
	router.HandleFunc("/loans/{id}/transactions", s.recordTransactionHandler).Methods("POST")
	router.HandleFunc("/loans/{id}/transactions/{txnId}", s.editTransactionHandler).Methods("PUT")
	router.HandleFunc("/loans/{id}/transactions/{txnId}", s.deleteTransactionHandler).Methods("DELETE")
	router.HandleFunc("/loans/{id}/payments", s.markPaidHandler).Methods("POST")

	router.HandleFunc("/preview/installment", s.previewInstallmentHandler).Methods("GET")
	router.HandleFunc("/preview/prepayment", s.previewPrepaymentHandler).Methods("GET")

	router.HandleFunc("/budgets", s.listBudgetsHandler).Methods("GET")
	router.HandleFunc("/budgets", s.createBudgetHandler).Methods("POST")
	router.HandleFunc("/budgets/totals", s.budgetTotalsHandler).Methods("GET")
	router.HandleFunc("/budgets/{id}", s.deleteBudgetHandler).Methods("DELETE")
	router.HandleFunc("/budgets/{id}/entries", s.listBudgetEntriesHandler).Methods("GET")
	router.HandleFunc("/budgets/{id}/entries", s.addBudgetEntryHandler).Methods("POST")
	router.HandleFunc("/budgets/{id}/entries/{entryId}", s.deleteBudgetEntryHandler).Methods("DELETE")

	router.HandleFunc("/khata", s.listKhataHandler).Methods("GET")
	router.HandleFunc("/khata", s.createKhataHandler).Methods("POST")
	router.HandleFunc("/khata/{id}", s.deleteKhataHandler).Methods("DELETE")
	router.HandleFunc("/khata/{id}/payments", s.listKhataPaymentsHandler).Methods("GET")
	router.HandleFunc("/khata/{id}/payments", s.recordKhataPaymentHandler).Methods("POST")
	router.HandleFunc("/khata/{id}/payments/{paymentId}", s.deleteKhataPaymentHandler).Methods("DELETE")

	router.HandleFunc("/checklists", s.listChecklistsHandler).Methods("GET")
	router.HandleFunc("/checklists", s.createChecklistHandler).Methods("POST")
	router.HandleFunc("/checklists/overdue", s.overdueItemsHandler).Methods("GET")
	router.HandleFunc("/checklists/{id}", s.deleteChecklistHandler).Methods("DELETE")
	router.HandleFunc("/checklists/{id}/items", s.addChecklistItemHandler).Methods("POST")
	router.HandleFunc("/checklists/{id}/items/{itemId}/toggle", s.toggleChecklistItemHandler).Methods("PUT")
	router.HandleFunc("/checklists/{id}/items/{itemId}", s.deleteChecklistItemHandler).Methods("DELETE")

	router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	return router
}

// sessionFor resolves the bearer token and returns (opening if needed) the
// caller's session. It writes the 401 itself when the token is missing or
// stale.
func (s *Server) sessionFor(w http.ResponseWriter, r *http.Request) *session.Session {
	token := bearerToken(r)
	userID, ok := s.auth.UserID(token)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil
	}

	if sess, ok := s.sessions[userID]; ok {
		return sess
	}
	sess, err := session.Open(s.storage, userID)
	if err != nil {
		log.Printf("Error opening session for %s: %v", userID, err)
		http.Error(w, "Failed to load state", http.StatusInternalServerError)
		return nil
	}
	s.sessions[userID] = sess
	return sess
}

func main() {
	cfg := config.Load()

	sqliteStore, err := store.NewSQLiteStore(cfg.SQLitePath)
	if err != nil {
		log.Fatalf("Failed to initialize SQLite store: %v", err)
	}
	defer sqliteStore.Close()

	var sessions auth.SessionStore
	if cfg.RedisAddr != "" {
		sessions = auth.NewRedisSessions(cfg.RedisAddr)
		log.Printf("Using Redis sessions at %s", cfg.RedisAddr)
	} else {
		sessions = auth.NewMemorySessions()
	}

	server := NewServer(sqliteStore, auth.NewService(sessions, cfg.SessionTTL))

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      server.router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Printf("Error starting server: %v", err)
		return
	case <-quit:
		log.Println("Shutting down server...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	log.Println("Server exited")
}
