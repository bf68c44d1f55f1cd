package imagecharts_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adamwoolhether/imagecharts"
	"github.com/adamwoolhether/imagecharts/imagechartstest"
)

func ExampleChart_URL() {
	chart, err := imagecharts.New()
	if err != nil {
		fmt.Println(err)
		return
	}

	pie := chart.
		With(imagecharts.ChartType, "p").
		With(imagecharts.ChartData, "t:1,2,3")

	fmt.Println(pie.URL())
	// Output: https://image-charts.com:443/chart?cht=p&chd=t%3A1%2C2%2C3
}

func ExampleChart_URL_signed() {
	chart, err := imagecharts.New(imagecharts.WithSecret("plop"))
	if err != nil {
		fmt.Println(err)
		return
	}

	signed := chart.
		With(imagecharts.ChartType, "p").
		With(imagecharts.ChartData, "t:1,2,3").
		With(imagecharts.ChartSize, "100x100").
		With(imagecharts.AccountID, "test_fixture")

	_, sig, _ := strings.Cut(signed.URL(), "&ichm=")
	fmt.Println(sig)
	// Output: 71bd93758b49ed28fdabd23a0ff366fe7bf877296ea888b9aaf4ede7978bdc8d
}

func ExampleChart_With() {
	chart, err := imagecharts.New()
	if err != nil {
		fmt.Println(err)
		return
	}

	base := chart.With(imagecharts.ChartType, "bvs").With(imagecharts.ChartSize, "300x200")
	first := base.With(imagecharts.ChartData, "t:10,20")
	second := base.With(imagecharts.ChartData, "t:30,40")

	fmt.Println(base.Query())
	fmt.Println(first.Query())
	fmt.Println(second.Query())
	// Output:
	// cht=bvs&chs=300x200
	// cht=bvs&chs=300x200&chd=t%3A10%2C20
	// cht=bvs&chs=300x200&chd=t%3A30%2C40
}

func ExampleChart_DataURI() {
	srv := imagechartstest.New()
	defer srv.Close()

	chart, err := imagecharts.New(srv.Options()...)
	if err != nil {
		fmt.Println(err)
		return
	}

	uri, err := chart.
		With(imagecharts.ChartType, "p").
		With(imagecharts.ChartData, "t:1,2,3").
		With(imagecharts.ChartSize, "2x2").
		DataURI(context.Background())
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(uri[:30])
	// Output: data:image/png;base64,iVBORw0K
}

func ExampleChart_Binary_validation() {
	srv := imagechartstest.New()
	defer srv.Close()

	chart, err := imagecharts.New(srv.Options()...)
	if err != nil {
		fmt.Println(err)
		return
	}

	_, err = chart.
		With(imagecharts.ChartType, "p").
		With(imagecharts.ChartData, "t:1,2,3").
		Binary(context.Background())

	var svcErr *imagecharts.ServiceError
	if errors.As(err, &svcErr) {
		fmt.Println(svcErr.Message)
	}
	// Output: "chs" is required
}

func ExampleChart_File() {
	srv := imagechartstest.New()
	defer srv.Close()

	dir, err := os.MkdirTemp("", "imagecharts-example")
	if err != nil {
		fmt.Println(err)
		return
	}
	defer os.RemoveAll(dir)

	chart, err := imagecharts.New(srv.Options()...)
	if err != nil {
		fmt.Println(err)
		return
	}

	path := filepath.Join(dir, "chart.gif")
	err = chart.
		With(imagecharts.ChartType, "p").
		With(imagecharts.ChartData, "t:1,2,3").
		With(imagecharts.ChartSize, "100x100").
		With(imagecharts.Animation, "1200").
		File(context.Background(), path)
	if err != nil {
		fmt.Println(err)
		return
	}

	b, err := os.ReadFile(path)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(string(b[:6]))
	// Output: GIF89a
}
