// Package audit enregistre les mutations du panier hors du chemin de la requête.
package audit

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/gocql/gocql"

	"marketplace_back_end/internal/models"
)

// Actions d'audit du panier
const (
	ActionCartAdd    = "cart.add"
	ActionCartUpdate = "cart.update"
	ActionCartRemove = "cart.remove"
	ActionCartClear  = "cart.clear"
)

const ResourceCart = "cart"

const DefaultBufferSize = 256

var ErrClosed = errors.New("audit logger fermé")

// Sink écrit une entrée d'audit.
type Sink interface {
	Write(ctx context.Context, entry models.AuditLog) error
}

// Logger écrit les entrées de façon asynchrone, via un seul worker.
// Quand le tampon est plein l'entrée est abandonnée et journalisée.
type Logger struct {
	sink    Sink
	entries chan models.AuditLog
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewLogger(sink Sink, bufferSize int) *Logger {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	l := &Logger{
		sink:    sink,
		entries: make(chan models.AuditLog, bufferSize),
		timeout: 5 * time.Second,
		done:    make(chan struct{}),
	}
	go l.run()
	return l
}

// Record complète l'entrée (id, horodatage) puis la met en file.
func (l *Logger) Record(entry models.AuditLog) error {
	var zero gocql.UUID
	if entry.ID == zero {
		entry.ID = gocql.TimeUUID()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return ErrClosed
	}

	select {
	case l.entries <- entry:
		return nil
	default:
		log.Printf("⚠️ File d'audit pleine, entrée %s abandonnée (user %s)", entry.Action, entry.UserID)
		return nil
	}
}

func (l *Logger) run() {
	defer close(l.done)
	for entry := range l.entries {
		ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
		if err := l.sink.Write(ctx, entry); err != nil {
			log.Printf("❌ Erreur enregistrement log audit: %v", err)
		}
		cancel()
	}
}

// Close vide la file puis arrête le worker, ou abandonne quand ctx expire.
func (l *Logger) Close(ctx context.Context) error {
	l.mu.Lock()
	if !l.closed {
		l.closed = true
		close(l.entries)
	}
	l.mu.Unlock()

	select {
	case <-l.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
