package main

import (
	"log"
	"os"

	"lumiskin_back_end/internal/config"
	"lumiskin_back_end/internal/database"
	"lumiskin_back_end/internal/handlers/admin"
	"lumiskin_back_end/internal/handlers/order"
	"lumiskin_back_end/internal/orders"
	"lumiskin_back_end/internal/payment"
	"lumiskin_back_end/internal/realtime"
	"lumiskin_back_end/internal/routes"
	"lumiskin_back_end/internal/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.Load()

	database.ConnectDatabases()
	defer database.CloseScylla()

	vnpCfg := config.LoadVNPay()
	if vnpCfg.TmnCode == "" || vnpCfg.HashSecret == "" {
		log.Fatal("❌ VNPay credentials missing: set VNP_TMN_CODE and VNP_HASH_SECRET")
	}
	gateway := payment.NewVNPayClient(vnpCfg)
	log.Println("💳 VNPay gateway configured:", vnpCfg.PayURL)

	orderService := orders.NewService(
		orders.ScyllaProductStore{},
		orders.ScyllaOrderStore{},
		orders.ScyllaRefundStore{},
		orders.ScyllaPromotionStore{},
		orders.ScyllaAccountStore{},
		gateway,
		utils.MailNotifier{},
		realtime.StatusPublisher{},
		vnpCfg.CallTimeout,
	)

	orderHandler := order.NewHandler(orderService, gateway, config.LoadFrontend())
	adminHandler := admin.NewHandler(orderService)

	r := gin.Default()
	routes.RegisterRoutes(r, orderHandler, adminHandler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("🚀 LumiSkin server listening on port", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("❌ Server stopped:", err)
	}
}
