package main

import "github.com/betterlifeboard/lifeboard-api/internal/app"

func main() {
	app.InitDefaultLogger()
	app.MustReadEnv()
	app.MustInitApplicationLogger()

	app.MustConnectPostgres()
	defer app.DisconnectPostgres()

	app.MustConnectRedis()
	defer app.DisconnectRedis()

	app.StartPushDispatcher()

	app.MustListenAndServeHTTP()
}
