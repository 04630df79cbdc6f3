// Stub API local para desarrollo: sirve en memoria el contrato que el cliente
// consume, con datos sembrados. No usar en producción.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/jhoicas/storefront-core/internal/infrastructure/mockapi"
	"github.com/jhoicas/storefront-core/pkg/config"
	"github.com/jhoicas/storefront-core/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "debug"})

	srv := mockapi.New(mockapi.Config{
		JWTSecret:  cfg.JWT.Secret,
		Issuer:     cfg.JWT.Issuer,
		ExpMinutes: cfg.JWT.Expiration,
	})

	log.Info().Str("addr", cfg.HTTP.Addr()).Msg("stub API escuchando")
	if err := srv.Listen(cfg.HTTP.Addr()); err != nil {
		log.Fatal().Err(err).Msg("stub API detenido")
	}
}
