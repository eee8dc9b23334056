package main

import (
	"os"

	"github.com/BlackBills-Engineering/ung-kiosk/common/logger"
	"github.com/BlackBills-Engineering/ung-kiosk/config"
	"github.com/BlackBills-Engineering/ung-kiosk/internal/backend"
	"github.com/BlackBills-Engineering/ung-kiosk/internal/cart"
	"github.com/BlackBills-Engineering/ung-kiosk/internal/cart/storage"
	"github.com/BlackBills-Engineering/ung-kiosk/internal/checkout"
	"github.com/BlackBills-Engineering/ung-kiosk/internal/preset"
	"github.com/BlackBills-Engineering/ung-kiosk/internal/pumps"
	"github.com/BlackBills-Engineering/ung-kiosk/internal/pumpstream"
	"github.com/BlackBills-Engineering/ung-kiosk/internal/server"
	"github.com/joho/godotenv"
)

var log = logger.GetLogger()

func main() {
	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		log.Debugln("[Kiosk] no .env file, using environment as-is")
	}

	conf, err := config.InitConfig(os.Getenv("CONFIG_FILE_PATH"))
	if err != nil {
		log.Fatalln("[Kiosk] failed to initialize config:", err)
	}
	log.Infof("action: config | result: loaded | %s", conf)

	cartStorage := newStorage(conf)
	client := backend.NewClient(conf)
	cartStore := cart.NewStore(cartStorage, client)
	session := checkout.NewSession(cartStore, client)
	presets := preset.NewService(client)

	pumpStore := pumps.NewStore()
	stream := pumpstream.NewClient(conf.StreamAddress, pumpStore, pumpstream.Listeners{
		OnConnect: func() {
			log.Infof("action: pump_stream | result: connected | addr: %s", conf.StreamAddress)
		},
		OnError: func(err error) {
			log.Warnf("action: pump_stream | result: error | error: %v", err)
		},
	})
	stream.Connect()
	defer stream.Close()

	s := server.NewServer(conf, pumpStore, cartStore, session, presets)
	if err := s.Run(); err != nil {
		log.Fatalln("[Kiosk] failed to start server:", err)
	}
}

func newStorage(conf *config.Config) storage.Storage {
	switch conf.Storage.Backend {
	case "redis":
		return storage.NewRedisStorage(conf.Storage.RedisAddr)
	default:
		return storage.NewFileStorage(conf.Storage.Path)
	}
}
