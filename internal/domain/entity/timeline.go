package entity

// StatusProgression progresión canónica de cumplimiento de un pedido.
// CANCELLED es terminal y queda fuera de la línea.
var StatusProgression = []OrderStatus{
	StatusPending,
	StatusConfirmed,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
}

// progressionIndex posición del estado en la progresión, -1 si no pertenece
// (incluye CANCELLED y cualquier estado futuro desconocido).
func progressionIndex(s OrderStatus) int {
	for i, st := range StatusProgression {
		if st == s {
			return i
		}
	}
	return -1
}

// TimelineStep un paso de la línea de progreso del pedido.
type TimelineStep struct {
	Status  OrderStatus `json:"status"`
	Reached bool        `json:"reached"`
}

// Timeline proyección del estado del pedido sobre la progresión canónica.
type Timeline struct {
	Cancelled bool           `json:"cancelled"`
	Steps     []TimelineStep `json:"steps"`
}

// ProjectTimeline proyecta un estado de pedido sobre la línea de progreso.
// Todos los pasos con índice <= al del estado actual quedan alcanzados.
// CANCELLED anula la línea por completo. Un estado desconocido degrada a
// "ningún paso alcanzado" en vez de fallar.
func ProjectTimeline(status OrderStatus) Timeline {
	if status == StatusCancelled {
		return Timeline{Cancelled: true}
	}
	idx := progressionIndex(status)
	steps := make([]TimelineStep, len(StatusProgression))
	for i, st := range StatusProgression {
		steps[i] = TimelineStep{Status: st, Reached: idx >= 0 && i <= idx}
	}
	return Timeline{Steps: steps}
}
