package handlers

import (
	"github.com/jmoiron/sqlx"

	"sellerhub/internal/config"
	"sellerhub/internal/repos"
	"sellerhub/internal/services"
)

type Deps struct {
	WebhookHandler  *WebhookHandler
	ProductHandler  *ProductHandler
	OrderHandler    *OrderHandler
	AdminHandler    *AdminHandler
	OverviewHandler *OverviewHandler

	Users *repos.UserRepo
}

func NewDeps(db *sqlx.DB, cfg config.Config) *Deps {
	userRepo := repos.NewUserRepo(db)
	prodRepo := repos.NewProductRepo(db)
	orderRepo := repos.NewOrderRepo(db)

	syncSvc := services.NewUserSyncService(userRepo)
	prodSvc := services.NewProductService(prodRepo)
	viewSvc := services.NewViewService(prodRepo, orderRepo)

	return &Deps{
		WebhookHandler:  &WebhookHandler{Secret: cfg.WebhookSecret, Sync: syncSvc},
		ProductHandler:  &ProductHandler{Products: prodSvc, Views: viewSvc},
		OrderHandler:    &OrderHandler{Views: viewSvc},
		AdminHandler:    &AdminHandler{Users: userRepo, Token: cfg.AdminToken},
		OverviewHandler: &OverviewHandler{Products: prodRepo, Orders: orderRepo, Users: userRepo},
		Users:           userRepo,
	}
}
