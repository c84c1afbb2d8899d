/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/hibiken/asynq"
	"github.com/hibiken/asynqmon"
	"github.com/jerry-enebeli/purse"
	"github.com/jerry-enebeli/purse/config"
	redis_db "github.com/jerry-enebeli/purse/internal/redis-db"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.elastic.co/apm/module/apmlogrus/v2"
)

func init() {
	logrus.AddHook(&apmlogrus.Hook{})
}

func initializeWorkerServer(conf *config.Configuration) (*asynq.Server, error) {
	redisOption, err := redis_db.AsynqOptions(conf.Redis.Dns, conf.Redis.SkipTLSVerify)
	if err != nil {
		return nil, fmt.Errorf("error parsing Redis URL: %v", err)
	}

	return asynq.NewServer(redisOption, asynq.Config{
		Concurrency: conf.Queue.WebhookConcurrency,
		Queues:      map[string]int{conf.Queue.WebhookQueue: 1},
	}), nil
}

func initializeTaskHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(purse.TaskTypeWebhook, purse.ProcessWebhook)
}

// startMonitoring serves asynqmon for the webhook queue.
func startMonitoring(conf *config.Configuration) error {
	redisOption, err := redis_db.AsynqOptions(conf.Redis.Dns, conf.Redis.SkipTLSVerify)
	if err != nil {
		return err
	}
	h := asynqmon.New(asynqmon.Options{
		RootPath:     "/monitoring",
		RedisConnOpt: redisOption,
	})

	go func() {
		monitoringAddr := fmt.Sprintf(":%s", conf.Queue.MonitoringPort)
		log.Printf("Asynqmon server listening on %s/monitoring", monitoringAddr)
		if err := http.ListenAndServe(monitoringAddr, h); err != nil {
			log.Printf("could not start asynqmon server: %v", err)
		}
	}()
	return nil
}

// workerCommands defines the "workers" command delivering queued webhooks.
func workerCommands(p *purseInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workers",
		Short: "start purse workers",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			conf := p.cnf
			if conf.Redis.Dns == "" {
				return errors.New("workers need redis.dns to be configured")
			}

			shutdown, err := initializeObservability(ctx, conf)
			if err != nil {
				return err
			}
			defer func() {
				if err := shutdown(ctx); err != nil {
					log.Printf("Error during shutdown: %v", err)
				}
			}()

			srv, err := initializeWorkerServer(conf)
			if err != nil {
				return err
			}

			mux := asynq.NewServeMux()
			initializeTaskHandlers(mux)

			if err := startMonitoring(conf); err != nil {
				return err
			}

			if err := srv.Run(mux); err != nil {
				return fmt.Errorf("could not run server: %v", err)
			}
			return nil
		},
	}

	return cmd
}
