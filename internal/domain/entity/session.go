package entity

// Session estado de autenticación del cliente: usuario actual y token bearer.
// Es el único estado que se comparte entre stores, y solo el session store lo muta.
type Session struct {
	User  *UserProfile `json:"user"`
	Token string       `json:"token"`
}

// IsAuthenticated una sesión es válida exactamente cuando hay token.
func (s Session) IsAuthenticated() bool {
	return s.Token != ""
}
