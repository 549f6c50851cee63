package mail_fx

import (
	"log"
	"os"
	"strconv"

	"go.uber.org/fx"

	"submgmt/internal/services"
)

var Module = fx.Provide(provideMailService)

func provideMailService() services.IMailService {

	port := 587 // 587 for STARTTLS; use 465 with SMTP_USE_SSL=true for SMTPS
	if v, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil && v > 0 {
		port = v
	}

	cfg := services.SMTPConfig{
		Host:       os.Getenv("SMTP_HOST"),
		Port:       port,
		Username:   os.Getenv("SMTP_USERNAME"),
		Password:   os.Getenv("SMTP_PASSWORD"), // use app password if 2FA is enabled
		From:       os.Getenv("SMTP_FROM"),
		FromName:   os.Getenv("SMTP_FROM_NAME"),
		UseSSL:     os.Getenv("SMTP_USE_SSL") == "true",
		RequireTLS: true,

		SiteName: os.Getenv("SITE_NAME"),
		SiteURL:  os.Getenv("SITE_URL"),
	}

	mailService, err := services.NewSMTPMailService(cfg)

	if err != nil {
		log.Printf("Failed to initialize SMTP mail service: %v", err)
	}

	return mailService
}
