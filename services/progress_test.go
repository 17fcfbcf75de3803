package services

import (
	"context"
	"testing"

	"lms/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProgress(t *testing.T) {
	db := newDB(t)
	course, chapters := seedCourse(t, db, true, true, true, true, true, false)
	complete(t, db, student, chapters[0].ID)
	complete(t, db, student, chapters[1].ID)
	// unpublished chapters never count
	complete(t, db, student, chapters[4].ID)

	progress, err := GetProgress(db, student, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, progress)

	progress, err = GetProgress(db, "someone_else", course.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, progress)
}

func TestGetProgressWithoutPublishedChapters(t *testing.T) {
	db := newDB(t)
	course, chapters := seedCourse(t, db, false, false, false)
	complete(t, db, student, chapters[0].ID)

	progress, err := GetProgress(db, student, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, progress)
}

func TestCourseProgressRequiresPurchase(t *testing.T) {
	db := newDB(t)
	course, chapters := seedCourse(t, db, true, true, true)

	_, err := CourseProgress(db, student, course.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	purchase(t, db, student, course.ID)
	complete(t, db, student, chapters[0].ID)
	progress, err := CourseProgress(db, student, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, progress)
}

func TestUpsertProgressIsIdempotent(t *testing.T) {
	db := newDB(t)
	course, chapters := seedCourse(t, db, true, true, true)
	purchase(t, db, student, course.ID)

	for i := 0; i < 3; i++ {
		row, err := UpsertProgress(context.Background(), db, nil, student, course.ID, chapters[0].ID, true)
		require.NoError(t, err)
		assert.True(t, row.IsCompleted)
	}
	row, err := UpsertProgress(context.Background(), db, nil, student, course.ID, chapters[0].ID, false)
	require.NoError(t, err)
	assert.False(t, row.IsCompleted)

	var count int64
	require.NoError(t, db.Model(&models.UserProgress{}).Where("user_id = ?", student).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUpsertProgressAccess(t *testing.T) {
	db := newDB(t)
	course, chapters := seedCourse(t, db, true, true, true, false)
	require.NoError(t, db.Model(&chapters[1]).Update("is_free", true).Error)
	ctx := context.Background()

	_, err := UpsertProgress(ctx, db, nil, student, course.ID, chapters[0].ID, true)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = UpsertProgress(ctx, db, nil, student, course.ID, chapters[1].ID, true)
	assert.NoError(t, err, "free chapters need no purchase")

	_, err = UpsertProgress(ctx, db, nil, owner, course.ID, chapters[0].ID, true)
	assert.NoError(t, err, "owners need no purchase")

	purchase(t, db, student, course.ID)
	_, err = UpsertProgress(ctx, db, nil, student, course.ID, chapters[2].ID, true)
	assert.ErrorIs(t, err, ErrNotFound, "unpublished chapter")

	_, err = UpsertProgress(ctx, db, nil, "", course.ID, chapters[0].ID, true)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, otherChapters := seedCourse(t, db, true, true)
	_, err = UpsertProgress(ctx, db, nil, student, course.ID, otherChapters[0].ID, true)
	assert.ErrorIs(t, err, ErrNotFound, "chapter of another course")
}

func TestGetDashboardCourses(t *testing.T) {
	db := newDB(t)
	done, doneChapters := seedCourse(t, db, true, true, true)
	half, halfChapters := seedCourse(t, db, true, true, true)
	fresh, _ := seedCourse(t, db, true, true)
	seedCourse(t, db, true, true)

	for _, c := range []uint{done.ID, half.ID, fresh.ID} {
		purchase(t, db, student, c)
	}
	complete(t, db, student, doneChapters[0].ID)
	complete(t, db, student, doneChapters[1].ID)
	complete(t, db, student, halfChapters[0].ID)

	dash := GetDashboardCourses(db, student)
	require.Len(t, dash.CompletedCourses, 1)
	assert.Equal(t, done.ID, dash.CompletedCourses[0].ID)
	assert.Equal(t, 100.0, *dash.CompletedCourses[0].Progress)

	require.Len(t, dash.CoursesInProgress, 2)
	ids := []uint{dash.CoursesInProgress[0].ID, dash.CoursesInProgress[1].ID}
	assert.ElementsMatch(t, []uint{half.ID, fresh.ID}, ids)
}

func TestGetDashboardCoursesFailsSoft(t *testing.T) {
	db := newDB(t)
	course, _ := seedCourse(t, db, true, true)
	purchase(t, db, student, course.ID)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	dash := GetDashboardCourses(db, student)
	assert.NotNil(t, dash.CompletedCourses)
	assert.NotNil(t, dash.CoursesInProgress)
	assert.Empty(t, dash.CompletedCourses)
	assert.Empty(t, dash.CoursesInProgress)
}
