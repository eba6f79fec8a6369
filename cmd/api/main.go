package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-retail-inventory/internal/handler"
	"go-retail-inventory/internal/middleware"
	"go-retail-inventory/internal/model"
	"go-retail-inventory/internal/repository"
	"go-retail-inventory/internal/service"
	"go-retail-inventory/internal/ws"
	"go-retail-inventory/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	// Auto Migrate (use a dedicated migration tool in production)
	db.AutoMigrate(
		&model.Product{}, &model.Location{},
		&model.StockLedgerEntry{},
		&model.Transfer{}, &model.TransferItem{},
		&model.HistoryEntry{},
		&model.User{}, &model.Privilege{}, &model.Role{},
	)

	// 3. Seed default privileges, roles, and admin user
	seedPrivilegesRolesAndAdmin(db)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	locationRepo := repository.NewLocationRepo(db)
	stockRepo := repository.NewStockRepo(db)
	transferRepo := repository.NewTransferRepo(db)
	historyRepo := repository.NewHistoryRepo(db)
	dashRepo := repository.NewDashboardRepo(db)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	catalogService := service.NewCatalogService(productRepo, locationRepo)
	stockService := service.NewStockService(stockRepo, historyRepo, db, wsHub)
	transferService := service.NewTransferService(transferRepo, stockRepo, historyRepo, db, wsHub)
	dashService := service.NewDashboardService(dashRepo)
	authService := service.NewAuthService(userRepo, wsHub)
	userService := service.NewUserService(userRepo, privilegeRepo, roleRepo, locationRepo)

	catalogHandler := handler.NewCatalogHandler(catalogService)
	invHandler := handler.NewInventoryHandler(stockService)
	transferHandler := handler.NewTransferHandler(transferService)
	dashHandler := handler.NewDashboardHandler(dashService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleRepo)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Retail Inventory v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	// Auth Routes (No authentication required)
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)
	auth.Post("/heartbeat", middleware.RequireAuth(userRepo), authHandler.Heartbeat) // Heartbeat uses Auth but available to all authenticated

	// ============ PROTECTED ROUTES ============
	// All routes below require authentication
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Dashboard Routes (authenticated users can view)
	protected.Get("/dashboard/stats", dashHandler.GetDashboardStats)
	protected.Get("/dashboard/transfer-movement", dashHandler.GetTransferMovement)

	// Product Routes (with privilege checks)
	protected.Get("/products", catalogHandler.GetProducts)
	protected.Get("/products/:id", catalogHandler.GetProduct)
	protected.Post("/products", middleware.RequirePrivilege("product:create"), catalogHandler.CreateProduct)
	protected.Put("/products/:id", middleware.RequirePrivilege("product:update"), catalogHandler.UpdateProduct)
	protected.Delete("/products/:id", middleware.RequirePrivilege("product:delete"), catalogHandler.DeleteProduct)

	// Location Routes (with privilege checks)
	protected.Get("/locations", catalogHandler.GetLocations)
	protected.Get("/locations/:id", catalogHandler.GetLocation)
	protected.Post("/locations", middleware.RequirePrivilege("location:create"), catalogHandler.CreateLocation)
	protected.Put("/locations/:id", middleware.RequirePrivilege("location:update"), catalogHandler.UpdateLocation)
	protected.Delete("/locations/:id", middleware.RequirePrivilege("location:delete"), catalogHandler.DeleteLocation)

	// Inventory Routes (with privilege checks)
	protected.Get("/inventory", middleware.RequirePrivilege("inventory:view"), invHandler.GetLocationStock)
	protected.Get("/inventory/:productId/:locationId", middleware.RequirePrivilege("inventory:view"), invHandler.GetStock)
	protected.Post("/inventory/adjust", middleware.RequirePrivilege("inventory:adjust"), invHandler.AdjustStock)
	protected.Post("/inventory/reserve", middleware.RequirePrivilege("inventory:reserve"), invHandler.ReserveStock)
	protected.Post("/inventory/release", middleware.RequirePrivilege("inventory:reserve"), invHandler.ReleaseStock)

	// Transfer Routes (with privilege checks).
	// Incoming/outgoing must be registered before /transfers/:id.
	protected.Get("/transfers/incoming", middleware.RequirePrivilege("transfer:view"), transferHandler.GetIncoming)
	protected.Get("/transfers/outgoing", middleware.RequirePrivilege("transfer:view"), transferHandler.GetOutgoing)
	protected.Get("/transfers/:id", middleware.RequirePrivilege("transfer:view"), transferHandler.GetTransfer)
	protected.Post("/transfers", middleware.RequirePrivilege("transfer:create"), transferHandler.CreateTransfer)
	protected.Put("/transfers/:id/confirm", middleware.RequirePrivilege("transfer:confirm"), transferHandler.ConfirmTransfer)
	protected.Put("/transfers/:id/reject", middleware.RequirePrivilege("transfer:reject"), transferHandler.RejectTransfer)
	protected.Put("/transfers/:id/cancel", middleware.RequirePrivilege("transfer:cancel"), transferHandler.CancelTransfer)
	protected.Delete("/transfers/:id", middleware.RequirePrivilege("transfer:delete"), transferHandler.DeleteTransfer)

	// User Management Routes (with privilege checks)
	protected.Get("/users", userHandler.GetUsers)
	protected.Get("/users/:id", userHandler.GetUser)
	protected.Post("/users", middleware.RequirePrivilege("user:create"), userHandler.CreateUser)
	protected.Put("/users/:id", middleware.RequirePrivilege("user:update"), userHandler.UpdateUser)
	protected.Delete("/users/:id", middleware.RequirePrivilege("user:delete"), userHandler.DeleteUser)
	protected.Put("/users/:id/privileges", middleware.RequirePrivilege("user:update_privilege"), userHandler.UpdateUserPrivileges)

	// Role Routes
	protected.Get("/roles", roleHandler.GetRoles)

	// Privileges Route (list all available privileges)
	protected.Get("/privileges", func(c *fiber.Ctx) error {
		privileges, err := privilegeRepo.FindAll()
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch privileges"})
		}
		return c.JSON(privileges)
	})

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedPrivilegesRolesAndAdmin creates default privileges, roles, and admin user if they don't exist
func seedPrivilegesRolesAndAdmin(db *gorm.DB) {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	// 1. Seed privileges first
	if err := privilegeRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed privileges: %v", err)
	}

	// 2. Seed roles
	if err := roleRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed roles: %v", err)
	}

	// 3. Assign privileges to roles
	allPrivileges, _ := privilegeRepo.FindAll()

	// MASTER_ADMIN gets ALL privileges
	masterRole, err := roleRepo.FindByCode(model.RoleMasterAdmin)
	if err == nil && len(masterRole.Privileges) == 0 {
		db.Model(&masterRole).Association("Privileges").Replace(allPrivileges)
		log.Println("✅ MASTER_ADMIN role assigned all privileges")
	}

	// ADMIN gets limited privileges (exclude user management)
	adminRole, err := roleRepo.FindByCode(model.RoleAdmin)
	if err == nil && len(adminRole.Privileges) == 0 {
		adminPrivileges := []model.Privilege{}
		for _, p := range allPrivileges {
			// Exclude user creation, update, delete, and privilege update
			if p.Code != "user:create" && p.Code != "user:update" && p.Code != "user:delete" && p.Code != "user:update_privilege" {
				adminPrivileges = append(adminPrivileges, p)
			}
		}
		db.Model(&adminRole).Association("Privileges").Replace(adminPrivileges)
		log.Println("✅ ADMIN role assigned limited privileges")
	}

	// LOCATION_MANAGER gets operational privileges only
	managerRole, err := roleRepo.FindByCode(model.RoleLocationManager)
	if err == nil && len(managerRole.Privileges) == 0 {
		managerCodes := map[string]bool{
			"product:view": true, "location:view": true,
			"inventory:view": true, "inventory:adjust": true, "inventory:reserve": true,
			"transfer:view": true, "transfer:create": true, "transfer:confirm": true,
			"transfer:reject": true, "transfer:cancel": true,
			"dashboard:view": true,
		}
		managerPrivileges := []model.Privilege{}
		for _, p := range allPrivileges {
			if managerCodes[p.Code] {
				managerPrivileges = append(managerPrivileges, p)
			}
		}
		db.Model(&managerRole).Association("Privileges").Replace(managerPrivileges)
		log.Println("✅ LOCATION_MANAGER role assigned operational privileges")
	}

	// 4. Create default admin user with MASTER_ADMIN role
	_, err = userRepo.FindByEmail("admin@example.com")
	if err != nil {
		// Create admin user
		masterRole, _ := roleRepo.FindByCode(model.RoleMasterAdmin)

		admin := &model.User{
			Email:       "admin@example.com",
			FullName:    "Master Administrator",
			PhoneNumber: "",
			RoleID:      &masterRole.ID,
			IsActive:    true,
			Privileges:  masterRole.Privileges,
		}
		admin.CreatedBy = "system"
		admin.UpdatedBy = "system"

		if err := admin.SetPassword("admin123"); err != nil {
			log.Printf("Warning: Failed to hash admin password: %v", err)
			return
		}

		if err := userRepo.Create(admin); err != nil {
			log.Printf("Warning: Failed to create admin user: %v", err)
		} else {
			log.Println("✅ Admin user created: admin@example.com / admin123 (MASTER_ADMIN)")
		}
	}
}
