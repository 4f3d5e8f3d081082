package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/kardianos/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const serviceName = "hooplog"

// serverProgram runs the API under the platform service manager.
type serverProgram struct {
	app    *app
	cancel context.CancelFunc
	done   chan error
}

func (p *serverProgram) Start(service.Service) error {
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan error, 1)
	go func() {
		p.done <- p.app.serve(ctx)
	}()
	return nil
}

func (p *serverProgram) Stop(service.Service) error {
	if p.cancel == nil {
		return nil
	}
	p.cancel()
	return <-p.done
}

// serviceConfig describes the installed service. It re-runs this binary
// with the same config file.
func (a *app) serviceConfig() (*service.Config, error) {
	args := []string{"service", "run"}
	if a.configPath != "" {
		path, err := filepath.Abs(a.configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve config path: %w", err)
		}
		args = append([]string{"--config", path}, args...)
	}
	return &service.Config{
		Name:        serviceName,
		DisplayName: "HoopLog API",
		Description: "Serves the HoopLog basketball journal API.",
		Arguments:   args,
	}, nil
}

func (a *app) newService() (service.Service, error) {
	cfg, err := a.serviceConfig()
	if err != nil {
		return nil, err
	}
	s, err := service.New(&serverProgram{app: a}, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}
	return s, nil
}

func (a *app) serviceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "service",
		Short: "Manage the API as a system service",
	}

	for _, action := range service.ControlAction {
		action := action
		cmd.AddCommand(&cobra.Command{
			Use:   action,
			Short: fmt.Sprintf("%s the %s service", action, serviceName),
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				s, err := a.newService()
				if err != nil {
					return err
				}
				if err := service.Control(s, action); err != nil {
					return err
				}
				a.logger.Info("service control", zap.String("action", action), zap.String("platform", service.Platform()))
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s done\n", serviceName, action)
				return nil
			},
		})
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show whether the service is running",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.newService()
			if err != nil {
				return err
			}
			status, err := s.Status()
			if err != nil && !errors.Is(err, service.ErrNotInstalled) {
				return fmt.Errorf("failed to get service status: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", serviceName, statusText(status, err))
			return nil
		},
	}, &cobra.Command{
		Use:    "run",
		Short:  "Run under the service manager",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			s, err := a.newService()
			if err != nil {
				return err
			}
			return s.Run()
		},
	})
	return cmd
}

func statusText(status service.Status, err error) string {
	if errors.Is(err, service.ErrNotInstalled) {
		return "not installed"
	}
	switch status {
	case service.StatusRunning:
		return "running"
	case service.StatusStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
