package main

import (
	_ "time/tzdata"

	"sterling_partners/internal/adapter/http/routes"

	_ "github.com/joho/godotenv/autoload"
)

// @title           Sterling & Partners API
// @version         1.0
// @description     Pricing calculator and appointment booking for Sterling & Partners, backed by DynamoDB.

// @contact.name   API Support
// @contact.email  support@sterlingpartners.nl

// @host localhost:8080

// @BasePath  /v1

func main() {
	routes.Run()
}
