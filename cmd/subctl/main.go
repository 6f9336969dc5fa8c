// cmd/subctl/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/goburrow/modbus"

	"github.com/tamzrod/subsea-controller/internal/canbus"
	"github.com/tamzrod/subsea-controller/internal/config"
	"github.com/tamzrod/subsea-controller/internal/control"
	"github.com/tamzrod/subsea-controller/internal/diag"
	"github.com/tamzrod/subsea-controller/internal/eventlog"
	"github.com/tamzrod/subsea-controller/internal/hal"
	"github.com/tamzrod/subsea-controller/internal/safety"
	"github.com/tamzrod/subsea-controller/internal/telemetry"
)

func main() {
	// --------------------
	// Load + validate config
	// --------------------

	cfg := config.Default()
	if len(os.Args) > 1 {
		var err error
		cfg, err = config.Load(os.Args[1])
		if err != nil {
			log.Fatalf("config load failed: %v", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}
	config.Normalize(cfg)

	c := cfg.Controller
	ctx := context.Background()

	// --------------------
	// Retained event log (cold/warm boot)
	// --------------------

	region, err := hal.NewFileRegion(c.EventLogPath)
	if err != nil {
		log.Fatalf("event log region: %v", err)
	}
	elog, warm, err := eventlog.Open(region)
	if err != nil {
		log.Fatalf("event log open: %v", err)
	}
	if warm {
		log.Printf("warm restart: %d retained log entries", elog.Count())
	} else {
		elog.Append(eventlog.Entry{
			TimestampMs: uint32(time.Now().UnixMilli()),
			Code:        eventlog.CodeBoot,
		})
	}

	// --------------------
	// Vehicle bus
	// --------------------

	bus, err := canbus.Dial(ctx, c.CAN.Interface)
	if err != nil {
		log.Fatalf("can bus: %v", err)
	}
	defer bus.Close()
	go bus.Run(ctx)

	// --------------------
	// Safety side
	// --------------------

	shared := telemetry.NewShared()

	// The reset function restarts the process; the supervisor brings us
	// back up and the event log region makes that a warm boot.
	dog, err := hal.NewSoftwareWatchdog(
		time.Duration(c.WatchdogTimeoutMs)*time.Millisecond,
		func() {
			log.Printf("watchdog: starved, forcing restart")
			os.Exit(1)
		},
	)
	if err != nil {
		log.Fatalf("watchdog: %v", err)
	}

	emy, err := safety.NewEmergency(bus, elog)
	if err != nil {
		log.Fatalf("emergency: %v", err)
	}

	mon, err := safety.NewMonitor(
		safety.MonitorConfig{
			SignalTimeout:  time.Duration(c.SignalTimeoutMs) * time.Millisecond,
			MaxDepthCm:     c.MaxDepthCm,
			MaxPitchDeg:    c.MaxPitchDeg,
			MinBatteryMv:   uint16(c.MinBatteryMv),
			StallThreshold: c.StallTicks,
		},
		shared, bus, bus, dog, emy, elog, bus,
	)
	if err != nil {
		log.Fatalf("safety monitor: %v", err)
	}

	// --------------------
	// Control side
	// --------------------

	loop, err := control.NewLoop(
		control.LoopConfig{
			MaxDepthCm:         c.MaxDepthCm,
			MaxPitchDeg:        c.MaxPitchDeg,
			DefaultDiveDepthCm: c.DefaultDiveDepthCm,
			BallastFillTime:    time.Duration(c.Ballast.FillTimeMs) * time.Millisecond,
			DepthPID: control.PIDConfig{
				Kp: c.DepthPID.Kp, Ki: c.DepthPID.Ki, Kd: c.DepthPID.Kd,
				IntegralLimit: c.DepthPID.IntegralLimit,
				OutputMin:     -100, OutputMax: 100,
				DerivativeOnMeasurement: true,
			},
			PitchPID: control.PIDConfig{
				Kp: c.PitchPID.Kp, Ki: c.PitchPID.Ki, Kd: c.PitchPID.Kd,
				IntegralLimit: c.PitchPID.IntegralLimit,
				OutputMin:     -100, OutputMax: 100,
				DerivativeOnMeasurement: true,
			},
		},
		bus, bus, shared, emy,
	)
	if err != nil {
		log.Fatalf("control loop: %v", err)
	}

	// --------------------
	// Topside status block (opt-in)
	// --------------------

	if c.Diag != nil {
		handler := modbus.NewTCPClientHandler(c.Diag.Endpoint)
		handler.SlaveId = c.Diag.UnitID
		handler.Timeout = time.Duration(c.Diag.TimeoutMs) * time.Millisecond
		if err := handler.Connect(); err != nil {
			log.Fatalf("diag connect failed: %v", err)
		}
		defer handler.Close()

		pub, err := diag.NewPublisher(modbus.NewClient(handler), c.Diag.BaseSlot, c.Diag.VehicleName)
		if err != nil {
			log.Fatalf("diag publisher: %v", err)
		}

		// 1 Hz status publisher.
		go func() {
			secTicker := time.NewTicker(time.Second)
			defer secTicker.Stop()

			for {
				select {
				case <-ctx.Done():
					return
				case <-secTicker.C:
					mv, _ := bus.ReadMillivolts()
					snap := diag.Snapshot{
						StateCode: uint16(shared.StateCode()),
						FaultBits: uint16(mon.Faults()),
						DepthCm:   uint16(shared.DepthCm()),
						PitchX10:  shared.PitchX10(),
						BatteryMv: mv,
						Emergency: emy.Active(),
						Heartbeat: uint16(shared.Heartbeat()),
					}
					if err := pub.Publish(snap); err != nil {
						log.Printf("diag publish failed: %v", err)
					}
				}
			}
		}()
	}

	// --------------------
	// Run both loops
	// --------------------

	// A panicking loop is a violated precondition: blow ballast, hold the
	// safe configuration, then let the watchdog restart us warm.
	guarded := func(name string, run func()) {
		go func() {
			defer func() {
				if r := recover(); r != nil {
					safety.FailFast(emy, dog, fmt.Sprintf("%s loop panic: %v", name, r))
				}
			}()
			run()
		}()
	}

	guarded("safety", func() { mon.Run(ctx, time.Duration(c.SafetyTickMs)*time.Millisecond) })
	guarded("control", func() { loop.Run(ctx, time.Duration(c.ControlTickMs)*time.Millisecond) })

	elog.Append(eventlog.Entry{
		TimestampMs: uint32(time.Now().UnixMilli()),
		Code:        eventlog.CodeInitComplete,
	})
	log.Printf("subsea controller up: safety %dms, control %dms", c.SafetyTickMs, c.ControlTickMs)

	// --------------------
	// Block forever (the loops end only by reset or power cycle)
	// --------------------
	for {
		time.Sleep(time.Hour)
	}
}
