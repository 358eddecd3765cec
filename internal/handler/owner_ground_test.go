package handler

import "testing"

func TestNormalizeWorkingDays(t *testing.T) {
    cases := []struct {
        name    string
        in      string
        want    string
        wantErr bool
    }{
        {name: "canonical", in: "MON,TUE,WED", want: "MON,TUE,WED"},
        {name: "lowercase and spaces", in: " mon , tue ,wed", want: "MON,TUE,WED"},
        {name: "duplicates collapse", in: "SAT,SAT,SUN", want: "SAT,SUN"},
        {name: "trailing comma", in: "FRI,", want: "FRI"},
        {name: "unknown day", in: "MON,FUNDAY", wantErr: true},
        {name: "empty", in: "", wantErr: true},
        {name: "only commas", in: ",,,", wantErr: true},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            got, err := normalizeWorkingDays(tc.in)
            if tc.wantErr {
                if err == nil {
                    t.Fatalf("normalizeWorkingDays(%q) = %q, want error", tc.in, got)
                }
                return
            }
            if err != nil {
                t.Fatalf("normalizeWorkingDays(%q) returned error: %v", tc.in, err)
            }
            if got != tc.want {
                t.Errorf("normalizeWorkingDays(%q) = %q, want %q", tc.in, got, tc.want)
            }
        })
    }
}
