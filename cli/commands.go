package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print the native system information record",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := bridge.SystemInfo()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "platform:  %s\n", info.Platform)
		fmt.Fprintf(out, "version:   %s\n", info.Version)
		fmt.Fprintf(out, "timestamp: %s\n", time.Unix(info.Timestamp, 0).UTC().Format(time.RFC3339))
		return nil
	},
}

var greetCmd = &cobra.Command{
	Use:   "greet [name]",
	Short: "Ask the native library for a greeting",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) == 1 {
			name = args[0]
		}
		greeting, err := bridge.Greeting(name)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), greeting)
		return nil
	},
}

var addCmd = &cobra.Command{
	Use:   "add <a> <b>",
	Short: "Add two 32-bit integers natively",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := parseInt32(args[0])
		if err != nil {
			return err
		}
		b, err := parseInt32(args[1])
		if err != nil {
			return err
		}
		sum, err := bridge.Add(a, b)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), sum)
		return nil
	},
}

var sumCmd = &cobra.Command{
	Use:   "sum [value...]",
	Short: "Sum 32-bit integers natively",
	RunE: func(cmd *cobra.Command, args []string) error {
		values := make([]int32, 0, len(args))
		for _, arg := range args {
			v, err := parseInt32(arg)
			if err != nil {
				return err
			}
			values = append(values, v)
		}
		sum, err := bridge.SumArray(values)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), sum)
		return nil
	},
}

var formatCmd = &cobra.Command{
	Use:   "format <template> <device>",
	Short: "Substitute {device} in a template natively",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := bridge.FormatText(args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}

var deviceCmd = &cobra.Command{
	Use:   "device",
	Short: "Print device name, model, and library version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if setName, _ := cmd.Flags().GetString("set-name"); setName != "" {
			if err := bridge.SetDeviceName(setName); err != nil {
				return err
			}
		}
		name, err := bridge.DeviceName()
		if err != nil {
			return err
		}
		model, err := bridge.DeviceModel()
		if err != nil {
			return err
		}
		version, err := bridge.SystemVersion()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if name == "" {
			name = "(not set)"
		}
		fmt.Fprintf(out, "name:    %s\n", name)
		fmt.Fprintf(out, "model:   %s\n", model)
		fmt.Fprintf(out, "version: %s\n", version)
		return nil
	},
}

func init() {
	deviceCmd.Flags().String("set-name", "", "Store a device name before reading it back")
}

func parseInt32(s string) (int32, error) {
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid int32 %q: %w", s, err)
	}
	return int32(v), nil
}
