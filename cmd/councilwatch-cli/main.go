package main

import (
	"councilwatch-backend/cmd/councilwatch-cli/cmd"
	"councilwatch-backend/lib/serviceutil"
	"councilwatch-backend/lib/telemetry"
)

func main() {
	telemetry.InitSlog(false)
	cmd.ExecuteContext(serviceutil.SignalContext())
}
