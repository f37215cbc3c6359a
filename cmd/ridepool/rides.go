package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ridepool/internal/models"
	"ridepool/internal/services"
)

func runSearch(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("search")
	from := fs.String("from", "", "pickup filter")
	to := fs.String("to", "", "destination filter")
	if _, err := parseFlags(fs, args); err != nil {
		return err
	}

	search := services.NewRideSearch(a.client, a.logger)
	if err := search.Fetch(ctx); err != nil {
		return err
	}
	rides := search.Apply(*from, *to)
	if len(rides) == 0 {
		fmt.Fprintln(a.out, "No rides match.")
		return nil
	}
	printRides(a, rides)
	return nil
}

func runMyRides(ctx context.Context, a *app, _ []string) error {
	rides, err := a.client.MyRides(ctx)
	if err != nil {
		return err
	}
	if len(rides) == 0 {
		fmt.Fprintln(a.out, "You have not offered any rides.")
		return nil
	}
	printRides(a, rides)
	return nil
}

func printRides(a *app, rides []models.Ride) {
	w := newTable(a.out)
	fmt.Fprintln(w, "ID\tFROM\tTO\tDEPARTS\tSEATS\tFARE\tSTATUS")
	for _, r := range rides {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.2f %s\t%s\n",
			r.ID.Hex(), r.StartLocation, r.EndLocation, a.formatTime(r.StartTime),
			r.SeatsAvailable, r.Fare, r.Currency, r.Status)
	}
	w.Flush()
}

// runRide is the ride details screen: the ride plus where the caller's
// request stands.
func runRide(ctx context.Context, a *app, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	rideID, err := parseID("ride id", args[0])
	if err != nil {
		return err
	}

	flow := services.NewRideRequestFlow(a.client, rideID, a.cfg.App.Timezone, a.logger)
	if err := flow.Load(ctx); err != nil {
		return err
	}
	printRideRequestView(a, flow.View())
	return nil
}

func runRequest(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("request")
	rideFlag := fs.String("ride", "", "ride id")
	join := fs.String("join", "", "stop where you get on")
	end := fs.String("end", "", "stop where you get off")
	message := fs.String("message", "", "note for the driver")
	if _, err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := required(map[string]string{"ride": *rideFlag, "join": *join, "end": *end}); err != nil {
		return err
	}
	rideID, err := parseID("ride id", *rideFlag)
	if err != nil {
		return err
	}

	flow := services.NewRideRequestFlow(a.client, rideID, a.cfg.App.Timezone, a.logger)
	if err := flow.Load(ctx); err != nil {
		return err
	}
	// An open request is shown with its date instead of being resent.
	if view := flow.View(); view.HasRequested {
		printRideRequestView(a, view)
		return nil
	}
	if err := flow.Submit(ctx, *join, *end, *message); err != nil {
		return err
	}
	printRideRequestView(a, flow.View())
	return nil
}

func printRideRequestView(a *app, view services.RideRequestView) {
	if view.Ride != nil {
		r := view.Ride
		w := newTable(a.out)
		fmt.Fprintf(w, "Ride\t%s\n", r.ID.Hex())
		fmt.Fprintf(w, "Route\t%s -> %s\n", r.StartLocation, r.EndLocation)
		fmt.Fprintf(w, "Departs\t%s\n", a.formatTime(r.StartTime))
		fmt.Fprintf(w, "Seats\t%d\n", r.SeatsAvailable)
		fmt.Fprintf(w, "Fare\t%.2f %s\n", r.Fare, r.Currency)
		if len(r.Stops) > 0 {
			names := make([]string, len(r.Stops))
			for i, s := range r.Stops {
				names[i] = s.Name
			}
			fmt.Fprintf(w, "Stops\t%s\n", strings.Join(names, ", "))
		}
		w.Flush()
		fmt.Fprintln(a.out)
	}

	switch view.State {
	case services.StateIdle:
		fmt.Fprintln(a.out, "You have not requested this ride yet.")
	case services.StatePending:
		fmt.Fprintf(a.out, "Request sent on %s. Waiting for the driver.\n", view.RequestedAt)
	case services.StateAlreadyRequested:
		fmt.Fprintf(a.out, "You already requested to join this ride on %s.\n", view.RequestedAt)
	case services.StateAccepted:
		fmt.Fprintln(a.out, "Your request was accepted. See you on the road!")
	case services.StateRejected:
		fmt.Fprintln(a.out, "Your request was declined. You can send a new one.")
	}
}

func runOffer(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("offer")
	carFlag := fs.String("car", "", "car id")
	from := fs.String("from", "", "start location")
	to := fs.String("to", "", "end location")
	at := fs.String("at", "", "departure time (RFC3339)")
	seats := fs.Int("seats", 1, "seats offered")
	fare := fs.Float64("fare", 0, "fare per seat")
	currency := fs.String("currency", "", "ISO currency code")
	stopsFlag := fs.String("stops", "", "stops as Name@lat,lng separated by ;")
	if _, err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := required(map[string]string{"car": *carFlag, "from": *from, "to": *to, "at": *at}); err != nil {
		return err
	}
	carID, err := parseID("car id", *carFlag)
	if err != nil {
		return err
	}
	startTime, err := time.Parse(time.RFC3339, *at)
	if err != nil {
		return fmt.Errorf("%w: -at must be RFC3339, e.g. 2026-01-02T08:30:00Z", errUsage)
	}
	stops, err := parseStops(*stopsFlag)
	if err != nil {
		return err
	}

	offers := services.NewOfferRideService(a.client, a.cfg.App.Currency, a.logger)
	ride, err := offers.Offer(ctx, &models.OfferRide{
		CarID:          carID,
		StartLocation:  *from,
		EndLocation:    *to,
		Stops:          stops,
		StartTime:      startTime,
		SeatsAvailable: *seats,
		Fare:           *fare,
		Currency:       strings.ToUpper(*currency),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Ride %s offered.\n", ride.ID.Hex())
	return nil
}

// parseStops reads "Name@lat,lng;Name@lat,lng".
func parseStops(raw string) ([]models.Stop, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var stops []models.Stop
	for _, part := range strings.Split(raw, ";") {
		name, coords, ok := strings.Cut(strings.TrimSpace(part), "@")
		if !ok {
			return nil, fmt.Errorf("%w: stop %q needs Name@lat,lng", errUsage, part)
		}
		latRaw, lngRaw, ok := strings.Cut(coords, ",")
		if !ok {
			return nil, fmt.Errorf("%w: stop %q needs Name@lat,lng", errUsage, part)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(latRaw), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad latitude in %q", errUsage, part)
		}
		lng, err := strconv.ParseFloat(strings.TrimSpace(lngRaw), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad longitude in %q", errUsage, part)
		}
		stops = append(stops, models.Stop{Name: strings.TrimSpace(name), Location: models.Location{Latitude: lat, Longitude: lng}})
	}
	return stops, nil
}

// runRequests is the driver's join requests screen.
func runRequests(ctx context.Context, a *app, args []string) error {
	if len(args) != 1 && len(args) != 3 {
		return errUsage
	}
	rideID, err := parseID("ride id", args[0])
	if err != nil {
		return err
	}

	joins := services.NewJoinRequests(a.client, rideID, a.logger)
	if err := joins.Load(ctx); err != nil {
		return err
	}

	if len(args) == 3 {
		requestID, err := parseID("request id", args[2])
		if err != nil {
			return err
		}
		var done string
		switch args[1] {
		case "accept":
			_, err = joins.Accept(ctx, requestID)
			done = "Request accepted."
		case "reject":
			_, err = joins.Reject(ctx, requestID)
			done = "Request declined."
		default:
			return errUsage
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s\n\n", done)
		if err := joins.Load(ctx); err != nil {
			return err
		}
	}

	if ride := joins.Ride(); ride != nil {
		fmt.Fprintf(a.out, "%s -> %s, %d seat(s) left\n\n", ride.StartLocation, ride.EndLocation, ride.SeatsAvailable)
	}
	requests := joins.Requests()
	if len(requests) == 0 {
		fmt.Fprintln(a.out, "No requests yet.")
		return nil
	}
	w := newTable(a.out)
	fmt.Fprintln(w, "ID\tRIDER\tJOIN\tEND\tSTATUS\tREQUESTED\tMESSAGE")
	for _, r := range requests {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID.Hex(), r.RiderID.Hex(), r.JoiningStop, r.EndingStop, r.Status, a.formatTime(r.RequestedAt), r.Message)
	}
	w.Flush()
	return nil
}

func runHistory(ctx context.Context, a *app, args []string) error {
	if len(args) > 0 && args[0] == "rate" {
		return rateHistory(ctx, a, args[1:])
	}

	history, err := a.client.ListRideHistory(ctx)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		fmt.Fprintln(a.out, "No rides yet.")
		return nil
	}
	w := newTable(a.out)
	fmt.Fprintln(w, "ID\tRIDE\tROLE\tSTATUS\tRATING\tDATE")
	for _, h := range history {
		rating := "-"
		if h.RatingGiven != nil {
			rating = strconv.FormatFloat(*h.RatingGiven, 'f', 1, 64)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", h.ID.Hex(), h.RideID.Hex(), h.Role, h.Status, rating, a.formatTime(h.CreatedAt))
	}
	w.Flush()
	return nil
}

func rateHistory(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("history rate")
	rating := fs.Float64("rating", 0, "rating from 1 to 5")
	comment := fs.String("comment", "", "comment")
	positional, err := parseFlags(fs, args)
	if err != nil {
		return err
	}
	if len(positional) != 1 || *rating == 0 {
		return errUsage
	}
	entryID, err := parseID("history id", positional[0])
	if err != nil {
		return err
	}

	completed := models.RideHistoryStatusCompleted
	update := &models.UpdateRideHistory{Status: &completed, RatingGiven: rating}
	if *comment != "" {
		update.Comment = comment
	}
	if _, err := a.client.UpdateRideHistory(ctx, entryID, update); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Thanks for rating your ride.")
	return nil
}
