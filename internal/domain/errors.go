package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrUnavailable        = errors.New("servicio no disponible")
	ErrEmptyCart          = errors.New("el carrito está vacío")
	ErrPaymentUnverified  = errors.New("verificación de pago fallida")
	ErrOrderNotCancelable = errors.New("el pedido ya no puede cancelarse")
)

// RemoteError es un rechazo del backend con el mensaje que el servidor entregó.
// Los stores lo propagan tal cual para que la UI muestre el texto del servidor.
type RemoteError struct {
	Status  int    // código HTTP
	Code    string // código de error del envelope, si viene
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("error remoto (HTTP %d)", e.Status)
}

// Message extrae el mensaje para el usuario de un error: si es un RemoteError
// usa el texto del servidor, en cualquier otro caso devuelve fallback.
func Message(err error, fallback string) string {
	var re *RemoteError
	if errors.As(err, &re) && re.Message != "" {
		return re.Message
	}
	return fallback
}
