// Package optimistic factoriza el patrón de mutación especulativa que
// comparten los stores de carrito y wishlist: capturar el estado previo,
// aplicar la transición local de inmediato, confirmar contra el servidor y,
// si falla, restaurar exactamente el estado capturado (nunca una recomputación).
package optimistic

// Mutate ejecuta una mutación especulativa sobre un estado S.
//
// local recibe el estado capturado y devuelve el estado especulativo; debe
// tratar su argumento como inmutable (copy-on-write), de modo que la
// restauración tras un fallo sea byte a byte el estado previo. confirm hace
// la llamada de red y, en éxito, devuelve el estado autoritativo que
// reemplaza al especulativo.
func Mutate[S any](get func() S, set func(S), local func(S) S, confirm func() (S, error)) error {
	prev := get()
	set(local(prev))

	next, err := confirm()
	if err != nil {
		set(prev)
		return err
	}
	set(next)
	return nil
}
