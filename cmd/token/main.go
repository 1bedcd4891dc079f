// token emite un JWT de operador para probar las rutas protegidas.
//
// Uso: go run ./cmd/token -operator op-1 -role bodeguero
//
// Firma con JWT_SECRET y usa JWT_ISSUER / JWT_EXPIRATION_MINUTES de la configuración.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/restock-api/pkg/config"
	"github.com/jhoicas/restock-api/pkg/jwt"
)

func main() {
	operator := flag.String("operator", "", "identificador del operador (claim sub)")
	role := flag.String("role", jwt.RoleBodeguero, "rol: admin, bodeguero o analista")
	minutes := flag.Int("minutes", 0, "expiración en minutos (0 = JWT_EXPIRATION_MINUTES)")
	flag.Parse()

	switch *role {
	case jwt.RoleAdmin, jwt.RoleBodeguero, jwt.RoleAnalista:
	default:
		fmt.Fprintf(os.Stderr, "Rol desconocido: %q\n", *role)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	if cfg.JWT.Secret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET no está definido")
		os.Exit(1)
	}
	exp := cfg.JWT.Expiration
	if *minutes > 0 {
		exp = *minutes
	}

	token, err := jwt.Generate(cfg.JWT.Secret, *operator, *role, cfg.JWT.Issuer, exp)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
