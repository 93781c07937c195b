package main

import (
	"dramalist-backend/cmd/dramalist/commands"
	"dramalist-backend/lib/util/serviceutil"
)

func main() {
	err := commands.ExecuteContext(serviceutil.SignalContext())
	if err != nil {
		serviceutil.Fatal("dramalist", err)
	}
}
