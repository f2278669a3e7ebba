package main

import (
	"fmt"
	"os"

	"github.com/OPGLOL/opgl-profile-service/internal/app"
	"github.com/OPGLOL/opgl-profile-service/internal/auth"
	"go.uber.org/fx"
)

func main() {
	// hash-password prints the bcrypt hash to use as ADMIN_PASSWORD_HASH
	if len(os.Args) == 3 && os.Args[1] == "hash-password" {
		hash, err := auth.HashPassword(os.Args[2])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(hash)
		return
	}

	fx.New(
		app.Module,
		fx.Invoke(app.RunServer),
		fx.NopLogger,
	).Run()
}
