// Package cmd - quote subcommands.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"freightrate/internal/modules/itinerary"
	"freightrate/internal/modules/multimodal"
	"freightrate/internal/modules/pricing"
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Price a freight move",
}

var (
	fromCountry string
	fromZip     string
	toCountry   string
	toZip       string
	toCity      string
	ldm         float64
	weight      float64
	month       int

	originPort      string
	destinationPort string
	containerType   string
)

var quoteEuropeCmd = &cobra.Command{
	Use:   "europe",
	Short: "Price a road move between two European postal codes",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := buildEnvironment()
		if err != nil {
			return err
		}
		svc := pricing.NewService(env.locations, env.distances, env.data, env.log)
		quote, err := svc.Quote(context.Background(), pricing.Request{
			FromCountry: fromCountry,
			FromPostal:  fromZip,
			ToCountry:   toCountry,
			ToPostal:    toZip,
			LDM:         ldm,
			WeightKg:    weight,
			Month:       time.Month(month),
		})
		if err != nil {
			return err
		}
		return printJSON(quote)
	},
}

var quoteMultimodalCmd = &cobra.Command{
	Use:   "multimodal",
	Short: "Price an ocean container move between two ports",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := buildEnvironment()
		if err != nil {
			return err
		}
		svc := multimodal.NewService(env.data, env.log)
		quote, err := svc.Quote(context.Background(), multimodal.Request{
			OriginPortID:      originPort,
			DestinationPortID: destinationPort,
			ContainerType:     containerType,
			WeightKg:          weight,
		})
		if err != nil {
			return err
		}
		return printJSON(quote)
	},
}

var quoteOverlandCmd = &cobra.Command{
	Use:   "overland",
	Short: "Price a two-leg overland move to Central Asia via the hub",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := buildEnvironment()
		if err != nil {
			return err
		}
		svc := itinerary.NewService(env.locations, env.distances, env.data, hubAddress, env.log)
		quote, err := svc.Quote(context.Background(), itinerary.Request{
			FromCountry: fromCountry,
			FromPostal:  fromZip,
			ToCountry:   toCountry,
			ToCity:      toCity,
			LDM:         ldm,
			WeightKg:    weight,
		})
		if err != nil {
			return err
		}
		return printJSON(quote)
	},
}

func init() {
	quoteEuropeCmd.Flags().StringVar(&fromCountry, "from-country", "", "origin country code")
	quoteEuropeCmd.Flags().StringVar(&fromZip, "from-zip", "", "origin postal code")
	quoteEuropeCmd.Flags().StringVar(&toCountry, "to-country", "", "destination country code")
	quoteEuropeCmd.Flags().StringVar(&toZip, "to-zip", "", "destination postal code")
	quoteEuropeCmd.Flags().Float64Var(&ldm, "ldm", 0, "loading meters")
	quoteEuropeCmd.Flags().Float64Var(&weight, "weight", 0, "weight in kg")
	quoteEuropeCmd.Flags().IntVar(&month, "month", 0, "shipping month 1-12 (default: current)")
	_ = quoteEuropeCmd.MarkFlagRequired("from-country")
	_ = quoteEuropeCmd.MarkFlagRequired("from-zip")
	_ = quoteEuropeCmd.MarkFlagRequired("to-country")
	_ = quoteEuropeCmd.MarkFlagRequired("to-zip")
	_ = quoteEuropeCmd.MarkFlagRequired("ldm")
	_ = quoteEuropeCmd.MarkFlagRequired("weight")

	quoteMultimodalCmd.Flags().StringVar(&originPort, "origin", "", "origin port ID")
	quoteMultimodalCmd.Flags().StringVar(&destinationPort, "destination", "", "destination port ID")
	quoteMultimodalCmd.Flags().StringVar(&containerType, "container", "40hc", "container type (20dv, 40dv, 40hc)")
	quoteMultimodalCmd.Flags().Float64Var(&weight, "weight", 0, "cargo weight in kg (default 20000)")
	_ = quoteMultimodalCmd.MarkFlagRequired("origin")
	_ = quoteMultimodalCmd.MarkFlagRequired("destination")

	quoteOverlandCmd.Flags().StringVar(&fromCountry, "from-country", "", "origin country code")
	quoteOverlandCmd.Flags().StringVar(&fromZip, "from-zip", "", "origin postal code")
	quoteOverlandCmd.Flags().StringVar(&toCountry, "to-country", "", "destination country code")
	quoteOverlandCmd.Flags().StringVar(&toCity, "to-city", "", "destination city")
	quoteOverlandCmd.Flags().Float64Var(&ldm, "ldm", 0, "loading meters (1-10)")
	quoteOverlandCmd.Flags().Float64Var(&weight, "weight", 0, "weight in kg")
	_ = quoteOverlandCmd.MarkFlagRequired("from-country")
	_ = quoteOverlandCmd.MarkFlagRequired("from-zip")
	_ = quoteOverlandCmd.MarkFlagRequired("to-country")
	_ = quoteOverlandCmd.MarkFlagRequired("to-city")
	_ = quoteOverlandCmd.MarkFlagRequired("ldm")
	_ = quoteOverlandCmd.MarkFlagRequired("weight")

	quoteCmd.AddCommand(quoteEuropeCmd)
	quoteCmd.AddCommand(quoteMultimodalCmd)
	quoteCmd.AddCommand(quoteOverlandCmd)
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
