// Copyright (C) 2023 Nyein Chan
// Licensed under the GNU General Public License v3.0

package node

import (
	"encoding/hex"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nyeinchan/promisechain/core"
	"github.com/nyeinchan/promisechain/logger"
	"github.com/nyeinchan/promisechain/runtime"
)

type nodeAPI struct {
	node *Node
}

func serveNodeAPI(node *Node) {
	api := &nodeAPI{node}

	gin.SetMode(gin.ReleaseMode)
	gin.DefaultWriter = io.Discard
	r := gin.New()
	r.Use(gin.Recovery())

	r.POST("/invocations", api.submitInvocation)
	r.GET("/invocations/:hash/receipt", api.getReceipt)

	r.POST("/querystate", api.queryState)
	r.GET("/state/:addr/:key", api.getState)

	r.GET("/calls/pending", api.getPendingCalls)
	r.POST("/calls/resolve", api.resolveRound)

	go func() {
		err := r.Run(fmt.Sprintf(":%d", node.config.APIPort))
		if err != nil {
			logger.I().Fatalw("failed to start api", "error", err)
		}
	}()
}

func (api *nodeAPI) submitInvocation(c *gin.Context) {
	ivc := core.NewInvocation()
	if err := c.ShouldBind(ivc); err != nil {
		c.String(http.StatusBadRequest, "cannot parse invocation")
		return
	}
	if err := ivc.Validate(); err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	rcp := api.node.runtime.Invoke(ivc)
	c.JSON(http.StatusOK, rcp)
}

func (api *nodeAPI) getReceipt(c *gin.Context) {
	hash, err := hex.DecodeString(c.Param("hash"))
	if err != nil {
		c.String(http.StatusBadRequest, "cannot parse hash")
		return
	}
	rcp, err := api.node.storage.GetReceipt(hash)
	if err != nil {
		c.String(http.StatusNotFound, err.Error())
		return
	}
	c.JSON(http.StatusOK, rcp)
}

func (api *nodeAPI) queryState(c *gin.Context) {
	query := new(runtime.QueryData)
	if err := c.ShouldBind(query); err != nil {
		c.String(http.StatusBadRequest, "cannot parse request")
		return
	}
	output, err := api.node.runtime.Query(query)
	if err != nil {
		c.String(http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, output)
}

func (api *nodeAPI) getState(c *gin.Context) {
	addr, err := hex.DecodeString(c.Param("addr"))
	if err != nil {
		c.String(http.StatusBadRequest, "cannot parse address")
		return
	}
	key, err := hex.DecodeString(c.Param("key"))
	if err != nil {
		c.String(http.StatusBadRequest, "cannot parse key")
		return
	}
	value := api.node.runtime.GetState(addr, key)
	c.JSON(http.StatusOK, value)
}

func (api *nodeAPI) getPendingCalls(c *gin.Context) {
	calls, err := api.node.runtime.PendingCalls()
	if err != nil {
		c.String(http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, calls)
}

func (api *nodeAPI) resolveRound(c *gin.Context) {
	resList, err := api.node.runtime.ResolveRound()
	if err != nil {
		c.String(http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, resList)
}
