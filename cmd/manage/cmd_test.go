package main

import (
	"testing"

	"github.com/anjiri1684/skill_tutor/models"
	"github.com/anjiri1684/skill_tutor/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func setup(t *testing.T) *commandLine {
	return &commandLine{db: testutil.OpenTestDB(t)}
}

type cliTest struct {
	name    string
	args    []string // without program name
	pwd     string
	wantErr error
}

func stubPassword(t *testing.T, pwd string) {
	prev := readPasswordFunc
	readPasswordFunc = func(fd int) ([]byte, error) { return []byte(pwd), nil }
	t.Cleanup(func() { readPasswordFunc = prev })
}

func Test_commandLine_usage(t *testing.T) {
	cli := setup(t)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "createadmin without email", args: []string{"createadmin"}, wantErr: errHelp},
		{name: "createadmin without password", args: []string{"createadmin", "-email", "a@b.cd"}, wantErr: errHelp},
		{name: "resetpassword without email", args: []string{"resetpassword"}, wantErr: errHelp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubPassword(t, tt.pwd)
			err := cli.run(append([]string{"manage"}, tt.args...))
			assert.Equal(t, tt.wantErr, err)
		})
	}
}

func Test_commandLine_createadmin(t *testing.T) {
	cli := setup(t)
	learner := testutil.CreateUser(t, models.RoleLearner, "promote@example.com")

	stubPassword(t, "s3cret-pass")
	require.NoError(t, cli.run([]string{"manage", "createadmin", "-email", "New.Admin@Example.com", "-name", "Root"}))
	require.NoError(t, cli.run([]string{"manage", "createadmin", "-email", learner.Email}))

	var admins []models.User
	require.NoError(t, cli.db.Where("role = ?", models.RoleAdmin).Order("email").Find(&admins).Error)
	require.Len(t, admins, 2)
	assert.Equal(t, "new.admin@example.com", admins[0].Email)
	assert.Equal(t, "Root", admins[0].FullName)
	assert.Equal(t, learner.ID, admins[1].ID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admins[1].Password), []byte("s3cret-pass")))
}

func Test_commandLine_resetpassword(t *testing.T) {
	cli := setup(t)
	usr := testutil.CreateUser(t, models.RoleLearner, "awe@test.cd")

	stubPassword(t, "short")
	assert.Error(t, cli.run([]string{"manage", "resetpassword", "-email", usr.Email}))

	stubPassword(t, "brand-new-pass")
	assert.Equal(t, errUserNotFound, cli.run([]string{"manage", "resetpassword", "-email", "nobody@test.cd"}))
	require.NoError(t, cli.run([]string{"manage", "resetpassword", "-email", usr.Email}))

	var refreshed models.User
	require.NoError(t, cli.db.First(&refreshed, "id = ?", usr.ID).Error)
	assert.NotEqual(t, usr.Password, refreshed.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(refreshed.Password), []byte("brand-new-pass")))
}

func Test_commandLine_seed(t *testing.T) {
	cli := setup(t)

	require.NoError(t, cli.run([]string{"manage", "seed"}))
	counts := func() map[string]int64 {
		out := map[string]int64{}
		for name, model := range map[string]interface{}{
			"users": &models.User{}, "courses": &models.Course{}, "enrollments": &models.Enrollment{},
			"bookings": &models.Booking{}, "payments": &models.Payment{}, "reviews": &models.Review{},
			"review_requests": &models.ReviewRequest{}, "categories": &models.CourseCategory{},
		} {
			var n int64
			require.NoError(t, cli.db.Model(model).Count(&n).Error)
			out[name] = n
		}
		return out
	}
	first := counts()
	assert.Equal(t, int64(5), first["users"])
	assert.Equal(t, int64(4), first["courses"])
	assert.Equal(t, int64(2), first["review_requests"])

	require.NoError(t, cli.run([]string{"manage", "seed"}))
	assert.Equal(t, first, counts(), "seeding twice adds nothing")

	var david models.Tutor
	require.NoError(t, cli.db.Joins("JOIN users ON users.id = tutors.user_id").
		Where("users.email = ?", "david@skilltutor.dev").First(&david).Error)
	assert.Equal(t, 1, david.TotalReviews)
	assert.InDelta(t, 5.0, david.AvgRating, 0.001)
}
