package main

// @title E-Tracking Backend API
// @version 1.0
// @description Status tracking for invoices, credit notes, delivery orders and GRNs.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	Execute()
}
