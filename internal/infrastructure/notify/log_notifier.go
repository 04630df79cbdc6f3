// Package notify implementación por defecto del puerto Notifier: los avisos
// al usuario se registran en el log (una UI real los mostraría como toasts).
package notify

import (
	"github.com/jhoicas/storefront-core/internal/application/ports"
	"github.com/jhoicas/storefront-core/pkg/logger"
)

var _ ports.Notifier = (*LogNotifier)(nil)

// LogNotifier avisos sobre zerolog.
type LogNotifier struct {
	log *logger.Logger
}

// New construye el notifier.
func New(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// Success aviso positivo al usuario.
func (n *LogNotifier) Success(msg string) {
	n.log.Info().Str("notice", "success").Msg(msg)
}

// Error aviso de fallo al usuario.
func (n *LogNotifier) Error(msg string) {
	n.log.Warn().Str("notice", "error").Msg(msg)
}
