package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"ridepool/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func (a *app) formatTime(t time.Time) string {
	return utils.FormatTime(t, a.cfg.App.Timezone)
}

func parseID(kind, raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: invalid %s %q", errUsage, kind, raw)
	}
	return id, nil
}
