package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lavapop_analytics/internal/logger"
)

func main() {
	ctx := context.Background()

	a, err := initApp(ctx)
	if err != nil {
		logger.GetErrorLogger().Fatalf("Erro na inicialização: %v", err)
	}
	log := logger.GetAppLogger()

	fiberApp := a.initFiberApp()

	// Shutdown gracioso em SIGINT/SIGTERM
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Info("Sinal de término recebido, encerrando")

		if err := fiberApp.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Errorf("Erro no shutdown do servidor: %v", err)
		}
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.store.Close(closeCtx); err != nil {
			log.Errorf("Erro ao desconectar do MongoDB: %v", err)
		}
	}()

	log.Infof("Servidor escutando em %s", a.cfg.Address)
	if err := fiberApp.Listen(a.cfg.Address); err != nil {
		log.Fatalf("Erro no servidor HTTP: %v", err)
	}
}
