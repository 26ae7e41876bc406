package insights_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/retaildash/retaildash/internal/dataset"
	"github.com/retaildash/retaildash/internal/insights"
)

const testPath = "online_retail_II(Year 2010-2011).csv"

func testDataset() *dataset.Dataset {
	return &dataset.Dataset{
		ID:       uuid.New(),
		Path:     testPath,
		LoadedAt: time.Date(2011, 12, 9, 12, 0, 0, 0, time.UTC),
		Records:  sampleRecords(),
	}
}

func TestService_Report(t *testing.T) {
	type testCase struct {
		name      string
		filter    insights.Filter
		setupMock func(m *insights.MockSource)
		check     func(t *testing.T, rep *insights.Report)
		wantErr   bool
	}

	tests := []testCase{
		{
			name:   "UnfilteredReport",
			filter: insights.Filter{Country: insights.CountryAll},
			setupMock: func(m *insights.MockSource) {
				m.EXPECT().Get(testPath).Return(testDataset(), nil)
			},
			check: func(t *testing.T, rep *insights.Report) {
				assert.Equal(t, 4, rep.Overview.Rows)
				assert.Equal(t, 9, rep.Overview.Columns)
				assert.Equal(t, 3, rep.Overview.UniqueProducts) // blank description excluded
				assert.Equal(t, 4, rep.Overview.UniqueCustomers)
				assert.Len(t, rep.Preview, 4)
				require.NotNil(t, rep.DateRange)
			},
		},
		{
			name:   "FilteredKPIsOverviewStaysFull",
			filter: insights.Filter{Country: "France"},
			setupMock: func(m *insights.MockSource) {
				m.EXPECT().Get(testPath).Return(testDataset(), nil)
			},
			check: func(t *testing.T, rep *insights.Report) {
				// Overview describes the full dataset.
				assert.Equal(t, 4, rep.Overview.Rows)
				// KPIs describe the filtered subset: 4*1.50 + 2*0.85 = 7.70.
				assert.True(t, rep.TotalSales.Equal(dec("7.70")), "total sales %s", rep.TotalSales)
				assert.Len(t, rep.Preview, 2)
			},
		},
		{
			name:   "EmptyFilterResult",
			filter: insights.Filter{Country: "Germany"},
			setupMock: func(m *insights.MockSource) {
				m.EXPECT().Get(testPath).Return(testDataset(), nil)
			},
			check: func(t *testing.T, rep *insights.Report) {
				assert.True(t, rep.TotalSales.IsZero())
				assert.True(t, rep.TotalProfit.IsZero())
				assert.Empty(t, rep.TopSellingProducts)
				assert.Nil(t, rep.DateRange)
				assert.Empty(t, rep.Preview)
			},
		},
		{
			name:   "SourceError",
			filter: insights.Filter{},
			setupMock: func(m *insights.MockSource) {
				m.EXPECT().Get(testPath).Return(nil, dataset.ErrNotFound)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			source := insights.NewMockSource(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(source)
			}

			svc := insights.NewService(source, testPath)
			rep, err := svc.Report(tt.filter)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, rep)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, rep)
			tt.check(t, rep)
		})
	}
}

func TestService_Countries(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	source := insights.NewMockSource(ctrl)
	source.EXPECT().Get(testPath).Return(testDataset(), nil)

	svc := insights.NewService(source, testPath)

	countries, err := svc.Countries()
	require.NoError(t, err)
	assert.Equal(t, []string{"France", "United Kingdom"}, countries)
}

func TestService_Filtered(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	source := insights.NewMockSource(ctrl)
	source.EXPECT().Get(testPath).Return(testDataset(), nil)

	svc := insights.NewService(source, testPath)

	records, err := svc.Filtered(insights.Filter{Country: "United Kingdom"})
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestService_FilteredError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	source := insights.NewMockSource(ctrl)
	source.EXPECT().Get(testPath).Return(nil, errors.New("disk error"))

	svc := insights.NewService(source, testPath)

	_, err := svc.Filtered(insights.Filter{})
	assert.Error(t, err)
}
