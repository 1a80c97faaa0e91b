package bootstrap

import (
	"context"
	"log"
	"time"

	"snochat-be/internal/config"
	"snochat-be/internal/constant"
	"snochat-be/internal/controller"
	"snochat-be/internal/pkg/logger"
	"snochat-be/internal/repository/memory"
	"snochat-be/internal/repository/unitofwork"
	"snochat-be/internal/service"
	"snochat-be/pkg/ai"
	"snochat-be/pkg/ai/gemini"
	pktNats "snochat-be/pkg/nats"
	"snochat-be/pkg/sms"
	"snochat-be/pkg/storage"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const creditAuditTopic = "credit.audit"

type Container struct {
	// Controllers
	AuthController    controller.IAuthController
	ChatController    controller.IChatController
	CreditController  controller.ICreditController
	UploadController  controller.IUploadController
	PaymentController controller.IPaymentController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		rdb = nil
	}

	// AI provider
	var provider ai.Provider = gemini.NewClient(
		cfg.Keys.GoogleGemini,
		cfg.Ai.Model,
		cfg.Ai.VisionModel,
		constant.ChatSystemInstruction,
		constant.ImageAnalysisPrompt,
	)
	log.Printf("[INFO] Using AI Provider: GEMINI (%s)", cfg.Ai.Model)

	// Object storage
	var store storage.Store
	if cfg.Storage.Driver == "s3" {
		s3Store, err := storage.NewS3Store(storage.S3Config{
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			Region:    cfg.Storage.Region,
			Endpoint:  cfg.Storage.Endpoint,
		})
		if err != nil {
			log.Fatalf("[FATAL] Failed to initialize object storage: %v", err)
		}
		store = s3Store
		log.Printf("[INFO] Using Storage: S3 (%s)", cfg.Storage.Bucket)
	} else {
		localStore, err := storage.NewLocalStore(cfg.Storage.LocalDir)
		if err != nil {
			log.Fatalf("[FATAL] Failed to initialize local storage: %v", err)
		}
		store = localStore
		log.Printf("[INFO] Using Storage: LOCAL (%s)", cfg.Storage.LocalDir)
	}

	// SMS sender (log-only unless a gateway is configured)
	var smsSender sms.ISender = sms.NewLogSender(sysLogger)

	// OTP store
	otpStore := memory.NewOtpStore(time.Duration(cfg.Sms.OtpTtlMin) * time.Minute)

	// 3. Services
	publisherService := service.NewPublisherService(creditAuditTopic, pubSub)

	// The audit consumer logs every ledger mutation; keep that churn out
	// of the main application log.
	auditLogger := logger.NewIsolatedLogger(cfg.App.AuditLogFilePath)
	consumerService := service.NewConsumerService(
		pubSub,
		creditAuditTopic,
		uowFactory,
		auditLogger,
	)

	creditService := service.NewCreditService(
		uowFactory,
		cfg.Credits,
		publisherService,
		natsPub,
		rdb,
		sysLogger,
	)
	authService := service.NewAuthService(
		uowFactory,
		otpStore,
		smsSender,
		creditService,
		natsPub,
		cfg.JWT,
		sysLogger,
	)
	chatService := service.NewChatService(
		uowFactory,
		provider,
		creditService,
		cfg.Credits,
		sysLogger,
	)
	attachmentService := service.NewAttachmentService(store, provider, creditService, sysLogger)
	paymentService := service.NewPaymentService(uowFactory, creditService, cfg.Payment, sysLogger)

	// 4. Controllers
	return &Container{
		AuthController:    controller.NewAuthController(authService),
		ChatController:    controller.NewChatController(chatService),
		CreditController:  controller.NewCreditController(creditService),
		UploadController:  controller.NewUploadController(attachmentService),
		PaymentController: controller.NewPaymentController(paymentService),

		ConsumerService: consumerService,
		Logger:          sysLogger,
	}
}
