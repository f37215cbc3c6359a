package main

import (
	"context"
	"fmt"
	"time"

	"ridepool/internal/models"
)

func runCars(ctx context.Context, a *app, args []string) error {
	if len(args) > 0 {
		switch args[0] {
		case "add":
			return addCar(ctx, a, args[1:])
		case "remove":
			if len(args) != 2 {
				return errUsage
			}
			carID, err := parseID("car id", args[1])
			if err != nil {
				return err
			}
			if err := a.client.DeleteCar(ctx, carID); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Car removed.")
			return nil
		default:
			return errUsage
		}
	}

	cars, err := a.client.ListCars(ctx)
	if err != nil {
		return err
	}
	if len(cars) == 0 {
		fmt.Fprintln(a.out, "No cars yet. Add one with `ridepool cars add`.")
		return nil
	}
	w := newTable(a.out)
	fmt.Fprintln(w, "ID\tCAR\tCOLOR\tPLATE\tSEATS")
	for _, c := range cars {
		fmt.Fprintf(w, "%s\t%s %s\t%s\t%s\t%d\n", c.ID.Hex(), c.Make, c.Model, c.Color, c.Plate, c.Seats)
	}
	w.Flush()
	return nil
}

func addCar(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("cars add")
	var input models.CarInput
	fs.StringVar(&input.Make, "make", "", "manufacturer")
	fs.StringVar(&input.Model, "model", "", "model")
	fs.StringVar(&input.Color, "color", "", "color")
	fs.StringVar(&input.Plate, "plate", "", "license plate")
	fs.IntVar(&input.Seats, "seats", 4, "passenger seats")
	if _, err := parseFlags(fs, args); err != nil {
		return err
	}

	car, err := a.client.CreateCar(ctx, &input)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Car %s added.\n", car.ID.Hex())
	return nil
}

func runSchedules(ctx context.Context, a *app, args []string) error {
	if len(args) > 0 {
		if args[0] != "add" {
			return errUsage
		}
		fs := newFlagSet("schedules add")
		day := fs.Int("day", int(time.Monday), "day of week, 0 is Sunday")
		var input models.CreateSchedule
		fs.StringVar(&input.DepartureTime, "at", "", "departure time HH:MM")
		fs.StringVar(&input.From, "from", "", "from")
		fs.StringVar(&input.To, "to", "", "to")
		if _, err := parseFlags(fs, args[1:]); err != nil {
			return err
		}
		input.DayOfWeek = time.Weekday(*day)

		schedule, err := a.client.CreateSchedule(ctx, &input)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Schedule %s saved.\n", schedule.ID.Hex())
		return nil
	}

	schedules, err := a.client.ListSchedules(ctx)
	if err != nil {
		return err
	}
	if len(schedules) == 0 {
		fmt.Fprintln(a.out, "No schedules yet.")
		return nil
	}
	w := newTable(a.out)
	fmt.Fprintln(w, "ID\tDAY\tTIME\tFROM\tTO")
	for _, s := range schedules {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", s.ID.Hex(), s.DayOfWeek, s.DepartureTime, s.From, s.To)
	}
	w.Flush()
	return nil
}
