package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"xuankong-api/internal/application/chengmen"
	"xuankong-api/internal/config"
	"xuankong-api/internal/domain/entity"
	"xuankong-api/internal/wire"
	"xuankong-api/pkg/logger"
)

// cli 命令共享状态
type cli struct {
	configPath string
	logLevel   string
	now        func() time.Time
}

func newRootCmd() *cobra.Command {
	c := &cli{now: time.Now}

	root := &cobra.Command{
		Use:           "xuankong",
		Short:         "玄空飞星起盘与分析",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			logger.InitWithWriter(os.Stderr, c.logLevel, "text")
		},
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "配置文件路径，缺省读取 XUANKONG_CONFIG 或 configs/config.yaml")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "warn", "日志级别")

	root.AddCommand(
		c.plateCmd(),
		c.analyzeCmd(),
		c.timelineCmd(),
		c.cacheCmd(),
		c.eventsCmd(),
	)
	return root
}

func (c *cli) loadConfig() (*config.Config, error) {
	if c.configPath == "" {
		return config.Load()
	}
	return config.LoadFile(c.configPath)
}

func (c *cli) engines(cmd *cobra.Command) (*wire.Engines, func(), error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	return wire.InitializeEngines(commandContext(cmd), cfg)
}

func (c *cli) storage(cmd *cobra.Command) (*wire.Storage, func(), error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	return wire.InitializeStorage(commandContext(cmd), cfg)
}

func (c *cli) plateCmd() *cobra.Command {
	var (
		facing float64
		year   int
	)
	cmd := &cobra.Command{
		Use:     "plate",
		Short:   "按朝向与建造年份起盘",
		Example: `  xuankong plate --facing 180 --year 2020`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, cleanup, err := c.engines(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			p, err := e.Plates.Get(commandContext(cmd), facing, year, nil)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), p)
		},
	}
	cmd.Flags().Float64Var(&facing, "facing", 0, "朝向度数 [0, 360)")
	cmd.Flags().IntVar(&year, "year", 0, "建造年份")
	_ = cmd.MarkFlagRequired("facing")
	_ = cmd.MarkFlagRequired("year")
	return cmd
}

func (c *cli) analyzeCmd() *cobra.Command {
	var (
		facing     float64
		year       int
		budget     float64
		month      int
		targetYear int
		urgency    string
	)
	cmd := &cobra.Command{
		Use:     "analyze",
		Short:   "综合分析",
		Example: `  xuankong analyze --facing 180 --year 2020
  xuankong analyze --facing 0 --year 2004 --budget 3000 --target-year 2025 --month 12`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := &entity.AnalysisRequest{
				Facing:    facing,
				BuildYear: year,
				Constraints: entity.RemedyConstraints{
					Urgency: entity.Urgency(urgency),
				},
			}
			if cmd.Flags().Changed("budget") {
				req.Constraints.Budget = &budget
			}
			if cmd.Flags().Changed("target-year") || cmd.Flags().Changed("month") {
				if targetYear == 0 {
					targetYear = c.now().Year()
				}
				req.TimeFactors = &entity.TimeFactors{Year: targetYear, Month: month}
			}

			e, cleanup, err := c.engines(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := e.Analysis.Run(commandContext(cmd), req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().Float64Var(&facing, "facing", 0, "朝向度数 [0, 360)")
	cmd.Flags().IntVar(&year, "year", 0, "建造年份")
	cmd.Flags().Float64Var(&budget, "budget", 0, "化解预算")
	cmd.Flags().IntVar(&month, "month", 0, "流月 (1-12)")
	cmd.Flags().IntVar(&targetYear, "target-year", 0, "流年，缺省为当年")
	cmd.Flags().StringVar(&urgency, "urgency", "", "紧急程度 immediate|soon|planned")
	_ = cmd.MarkFlagRequired("facing")
	_ = cmd.MarkFlagRequired("year")
	return cmd
}

func (c *cli) timelineCmd() *cobra.Command {
	var period, year int
	cmd := &cobra.Command{
		Use:     "timeline",
		Short:   "催旺时效",
		Example: `  xuankong timeline --period 9 --year 2025`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if year == 0 {
				year = c.now().Year()
			}
			tl, err := chengmen.Timeline(entity.Period(period), year)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), tl)
		},
	}
	cmd.Flags().IntVar(&period, "period", 0, "元运 (1-9)")
	cmd.Flags().IntVar(&year, "year", 0, "目标年份，缺省为当年")
	_ = cmd.MarkFlagRequired("period")
	return cmd
}

func (c *cli) cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Redis 盘面缓存维护",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "purge",
		Short: "清空 Redis 中的盘面缓存",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, cleanup, err := c.storage(cmd)
			if err != nil {
				return err
			}
			defer cleanup()
			if s.PlateStore == nil {
				return errors.New("redis cache is not enabled")
			}

			n, err := s.PlateStore.Purge(commandContext(cmd))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]int{"purged": n})
		},
	})
	return cmd
}

func (c *cli) eventsCmd() *cobra.Command {
	var count int64
	cmd := &cobra.Command{
		Use:   "events",
		Short: "查看最近的分析完成事件",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, cleanup, err := c.storage(cmd)
			if err != nil {
				return err
			}
			defer cleanup()
			if s.Producer == nil {
				return errors.New("analysis event stream is not enabled")
			}

			msgs, err := s.Producer.Recent(commandContext(cmd), count)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), msgs)
		},
	}
	cmd.Flags().Int64Var(&count, "count", 10, "读取条数")
	return cmd
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
