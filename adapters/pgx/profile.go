package pgx

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/lmoralesc/pausia/core"
)

func (a *Adapter) GetProfileByID(ctx context.Context, subjectID string) (*core.Profile, error) {
	q := `SELECT id, full_name, role, team_id, manager_id FROM public.profiles WHERE id = $1`

	profile := &core.Profile{}
	var teamID, managerID *string
	err := a.pool.QueryRow(ctx, q, subjectID).Scan(&profile.ID, &profile.FullName, &profile.Role, &teamID, &managerID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, core.ErrProfileNotFound
		}
		return nil, err
	}
	profile.TeamID = teamID
	profile.ManagerID = managerID
	return profile, nil
}
